package store

import "errors"

// Error kinds surfaced to callers. Every failure is terminal: the coordinator
// never retries on the caller's behalf, and handlers map each kind to a
// distinct HTTP status and code so clients can tell them apart.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("credential does not match resource owner")
	ErrForbidden         = errors.New("accounts are not friends")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("already exists")
	ErrAlreadyFriends    = errors.New("accounts are already friends")
	ErrRequestExists     = errors.New("a pending friend request already exists")
	ErrDuplicateRequest  = errors.New("a connection request is already outstanding for this session pair")
	ErrTargetUnavailable = errors.New("target session is not live")
)
