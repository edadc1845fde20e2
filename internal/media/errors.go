package media

import "errors"

var (
	// ErrValidation indicates the upload descriptor failed size or type policy.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals that no object resolved for the requested id.
	ErrNotFound = errors.New("object not found")
	// ErrStore represents a failure of the backing object store.
	ErrStore = errors.New("object store failure")
)
