package types

import "errors"

// Domain errors returned by the storage layer. Callers check them with
// errors.Is; anything not wrapping one of these is a storage failure,
// not a rejected request.
var (
	// ErrNotFound means a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means a unique or composite-unique constraint was
	// violated (duplicate username/email, duplicate roster or
	// sprint-requirement link).
	ErrDuplicate = errors.New("duplicate")

	// ErrIllegalTransition means a task status change outside the
	// allowed state graph was requested. Invalid transitions are
	// rejected, never clamped.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrNotProjectMember means an assignment named a member who is not
	// on the task's project roster.
	ErrNotProjectMember = errors.New("not a project member")

	// ErrInvalidCredentials is the single authentication failure. It
	// deliberately does not say whether the identifier or the secret
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
