package keyset

import "errors"

var (
	// ErrInvalidDirection is returned when a sort direction is neither ASC nor DESC.
	ErrInvalidDirection = errors.New("invalid sort direction")
	// ErrForbiddenExpression is returned when a sort expression contains
	// symbols outside the allowed charset.
	ErrForbiddenExpression = errors.New("sort expression contains forbidden symbols")
	// ErrMixedAggregate is returned when aggregate and plain expressions are
	// combined in one active sort list.
	ErrMixedAggregate = errors.New("cannot mix aggregate and non-aggregate sorts")
	// ErrParameterCollision is returned when two different expressions map to
	// the same bind parameter name.
	ErrParameterCollision = errors.New("sort parameter name collision")
	// ErrUnknownSort is returned by ValidSorters for names it does not know.
	ErrUnknownSort = errors.New("unknown sort")
	// ErrMalformedCursor wraps every cursor decoding failure.
	ErrMalformedCursor = errors.New("malformed cursor")
)
