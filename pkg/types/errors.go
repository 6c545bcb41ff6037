package types

import "errors"

// Standard errors returned by the workspace core. I/O failures are wrapped
// with context via fmt.Errorf and reported per operation; they never
// invalidate the in-memory session.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrDuplicateID     = errors.New("duplicate entity id")
	ErrInvalidID       = errors.New("invalid entity id")
	ErrEndpointMissing = errors.New("edge endpoint does not exist")
	ErrWorkspaceClosed = errors.New("workspace is closed")
	ErrNotAWorkspace   = errors.New("not a workspace directory")
	ErrParentNotFound  = errors.New("parent group does not exist")
)
