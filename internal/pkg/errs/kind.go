package errs

import "errors"

// Kind is the caller-facing class of an error.
type Kind int

const (
	// KindInternal covers unexpected failures (persistence, transport).
	KindInternal Kind = iota
	// KindNotFound means a referenced order, restaurant, item, address or driver is missing.
	KindNotFound
	// KindBadRequest is permanent: retrying the same request fails the same way.
	KindBadRequest
	// KindConflict is retryable after re-reading the aggregate.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindBadRequest:
		return "BadRequest"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// Retryable reports whether the caller may reload and reapply.
func (k Kind) Retryable() bool {
	return k == KindConflict
}

// Classify maps any error produced by the core onto its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrVersionConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrBusinessRuleViolated),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired):
		return KindBadRequest
	default:
		return KindInternal
	}
}
