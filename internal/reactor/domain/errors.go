package reactor

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the reactor core. Every rejected operation
// wraps one of these two, so callers classify with errors.Is.
var (
	// ErrInvalidArgument marks a value outside its declared domain.
	// The aggregate is left unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState marks an operation that is not legal in the
	// current status or operational flag. The aggregate is left unchanged.
	ErrInvalidState = errors.New("invalid state")
)

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func invalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
