package taxonomy

import "errors"

// Error taxonomy shared by every service. Handlers translate these to HTTP
// status codes in exactly one place; repositories translate storage errors
// into them at the boundary.
var (
	ErrNotFound               = errors.New("not found")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrAlreadyInTerminalState = errors.New("already in terminal state")
	ErrUnavailable            = errors.New("temporarily unavailable")
	ErrInternal               = errors.New("internal error")
)

// IsRetryable reports whether a caller may retry the failed operation.
// Permission and validation failures are never retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
