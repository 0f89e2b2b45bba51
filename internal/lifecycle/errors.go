package lifecycle

import "errors"

// Error taxonomy shared by every record manager. Services wrap these with
// the offending identifier; callers branch with errors.Is.
var (
	// ErrNotFound signals the referenced record does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("not_found")

	// ErrDuplicate signals a natural-key collision with a non-deleted record.
	ErrDuplicate = errors.New("duplicate_record")

	// ErrVersionConflict signals a stale expectedVersion; the caller must
	// re-fetch and retry. The write did not happen.
	ErrVersionConflict = errors.New("version_conflict")

	// ErrParentNotFound signals a child create referencing a missing or
	// deleted parent profile.
	ErrParentNotFound = errors.New("parent_not_found")

	// ErrInvalidRequest signals a business-rule violation beyond field-level
	// shape validation.
	ErrInvalidRequest = errors.New("invalid_request")
)
