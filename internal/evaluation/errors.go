package evaluation

import "errors"

// All store and controller failures are recoverable: a failing operation
// never mutates store data, and state only transitions on success.
var (
	// ErrNotBound is returned when an operation runs before any call is bound
	ErrNotBound = errors.New("no call bound")

	// ErrNotEditing is returned when a mutation is attempted outside an edit session
	ErrNotEditing = errors.New("not in edit mode")

	// ErrAlreadyEditing is returned when BeginEdit is called during an edit session
	ErrAlreadyEditing = errors.New("already in edit mode")

	// ErrUnknownQuestion is returned for question ids outside the bound catalog subset
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrInvalidAnswerValue is returned for values outside yes/no/refused/na
	ErrInvalidAnswerValue = errors.New("invalid answer value")

	// ErrStaleBind is returned when a bind result arrives for a superseded selection
	ErrStaleBind = errors.New("stale bind result")

	// ErrSaveFailed wraps persistence errors after Save; the local commit
	// is kept, so the caller can retry without re-entering answers
	ErrSaveFailed = errors.New("save failed")
)
