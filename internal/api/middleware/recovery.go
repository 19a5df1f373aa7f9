package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/middleware"
)

// Recovery creates panic recovery middleware for the API. The client gets
// the opaque internal error unless the response is already under way.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	// Upgraded websockets and open SSE streams cannot take a JSON body
	if rw, ok := w.(*middleware.ResponseWriter); ok && rw.Started() {
		return
	}
	apierr.WriteError(w, apierr.NewInternalError())
}
