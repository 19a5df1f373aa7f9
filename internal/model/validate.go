package model

import (
	"fmt"
	"strings"
)

// MaxIdentifierLength bounds room codes and player names
const MaxIdentifierLength = 64

// ValidateIdentifier rejects empty, padded or oversized identifiers
func ValidateIdentifier(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	if trimmed != value || len(value) > MaxIdentifierLength {
		return fmt.Errorf("%w: malformed %s", ErrInvalidRequest, field)
	}
	return nil
}
