package editor

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
// Precondition violations. A correctly wired host never triggers them; they
// exist so a bad index is reported instead of producing a corrupted plan.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrOffDay          = errors.New("off days cannot hold slots")
	ErrInvalidVariant  = errors.New("invalid day variant")
	ErrInvalidKind     = errors.New("invalid day kind")
	ErrDuplicateID     = errors.New("identifier used twice")
	ErrInvalidField    = errors.New("invalid item field or value")
	ErrUnknownOp       = errors.New("unknown command")
)

func checkIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%s index %d with length %d: %w", what, i, n, ErrIndexOutOfRange)
	}
	return nil
}
