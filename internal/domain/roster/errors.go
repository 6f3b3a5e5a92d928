package roster

import "errors"

var (
	ErrIdentitiesUnavailable = errors.New("employee list is unavailable")
	ErrSnapshotUnavailable   = errors.New("today's attendance is unavailable")
)
