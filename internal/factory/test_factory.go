package factory

import (
	"time"

	"github.com/mcoot/unogame/internal/dependencies/mocks"
	"github.com/mcoot/unogame/internal/roomlock"
	"github.com/mcoot/unogame/internal/storage/memory"
	"github.com/mcoot/unogame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The mock random returns 0 unless values are queued, so decks are dealt in
// a predictable order.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, roomlock.NewLocal(time.Second), mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
