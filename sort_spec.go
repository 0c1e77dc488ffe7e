package keyset

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Serializer turns a record into the cursor token of one sort dimension.
type Serializer[T any] func(record T) string

// Deserializer turns a cursor token back into a value comparable with the
// dimension's expression. An error marks the whole cursor as malformed.
type Deserializer func(token string) (any, error)

// SortSpec describes one sort dimension: the SQL expression to compare, its
// direction and the codec between records, cursor tokens and bind values.
//
// SortSpec is immutable. Build it once (e.g. in a ValidSorters table) and share
// it between requests.
type SortSpec[T any] struct {
	expression  string
	direction   Direction
	serialize   Serializer[T]
	deserialize Deserializer
}

var _availableExpressionSymbols = append([]rune("_.'`\"()*, "), lo.AlphanumericCharset...)

// NewSortSpec validates and builds a SortSpec. A nil deserialize binds the
// token string as-is.
func NewSortSpec[T any](
	expression string,
	direction Direction,
	serialize Serializer[T],
	deserialize Deserializer,
) (SortSpec[T], error) {
	if !direction.Valid() {
		return SortSpec[T]{}, fmt.Errorf("%w '%s' for '%s'", ErrInvalidDirection, direction, expression)
	}

	// These expressions are concatenated into SQL, restrict them to
	// identifiers and aggregate calls.
	if strings.TrimSpace(expression) == "" || !lo.Every(_availableExpressionSymbols, []rune(expression)) {
		return SortSpec[T]{}, fmt.Errorf("%w '%s'", ErrForbiddenExpression, expression)
	}

	if serialize == nil {
		return SortSpec[T]{}, fmt.Errorf("sort '%s' has no serializer", expression)
	}

	if deserialize == nil {
		deserialize = identity
	}

	return SortSpec[T]{
		expression:  expression,
		direction:   direction,
		serialize:   serialize,
		deserialize: deserialize,
	}, nil
}

// MustSortSpec is like NewSortSpec but panics on a configuration error.
func MustSortSpec[T any](
	expression string,
	direction Direction,
	serialize Serializer[T],
	deserialize Deserializer,
) SortSpec[T] {
	s, err := NewSortSpec(expression, direction, serialize, deserialize)
	if err != nil {
		panic(err)
	}

	return s
}

func identity(token string) (any, error) {
	return token, nil
}

func (s SortSpec[T]) Expression() string {
	return s.expression
}

func (s SortSpec[T]) Direction() Direction {
	return s.direction
}

// IsZero reports whether s was never initialized.
func (s SortSpec[T]) IsZero() bool {
	return s.expression == "" && s.serialize == nil
}

// IsAggregate reports whether the expression is a function call (e.g. COUNT),
// which has to be compared after grouping.
func (s SortSpec[T]) IsAggregate() bool {
	return strings.Contains(s.expression, "(")
}

// ParameterName returns the bind parameter name of this dimension: the
// lower-cased expression with every non-letter replaced by '_'.
//
// Example: "COUNT(comments.id)" -> "count_comments_id_".
func (s SortSpec[T]) ParameterName() string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return '_'
	}, strings.ToLower(s.expression))
}

// Serialize returns the cursor token of record for this dimension.
func (s SortSpec[T]) Serialize(record T) string {
	return s.serialize(record)
}

// Deserialize returns the bind value for token.
func (s SortSpec[T]) Deserialize(token string) (any, error) {
	return s.deserialize(token)
}

// OrderClause returns "expr" for ascending and "expr DESC" for descending.
func (s SortSpec[T]) OrderClause() string {
	if s.direction == DirectionDESC {
		return fmt.Sprintf("%s %s", s.expression, DirectionDESC)
	}

	return s.expression
}

// ComparisonClause returns the strict "after" condition:
// "expr > @param" for ascending and "expr < @param" for descending.
func (s SortSpec[T]) ComparisonClause() string {
	return s.clause(s.direction.ForOperator())
}

// EqualityClause returns "expr = @param".
func (s SortSpec[T]) EqualityClause() string {
	return s.clause(operatorEq)
}

func (s SortSpec[T]) clause(op Operator) string {
	return fmt.Sprintf("%s %s @%s", s.expression, op, s.ParameterName())
}

// Sorts is an ordered list of sort dimensions.
type Sorts[T any] []SortSpec[T]

// ToSQLSlice returns the ORDER BY terms in order.
//
// Example: for [created_at ASC, id DESC] returns ["created_at", "id DESC"].
func (o Sorts[T]) ToSQLSlice() []string {
	return lo.Map(o, func(s SortSpec[T], _ int) string {
		return s.OrderClause()
	})
}

// ToSQL joins ToSQLSlice into one ORDER BY list.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", sorts.ToSQL())
func (o Sorts[T]) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query.
func (o Sorts[T]) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.ToSQL())
}

// HasAggregate reports whether any dimension is an aggregate expression.
func (o Sorts[T]) HasAggregate() bool {
	return lo.SomeBy(o, func(s SortSpec[T]) bool { return s.IsAggregate() })
}

func (o Sorts[T]) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("empty sort list")
	}

	for _, s := range o {
		if s.IsZero() {
			return fmt.Errorf("uninitialized sort in sort list")
		}
	}

	expressions := make(map[string]string, len(o))
	for _, s := range o {
		name := s.ParameterName()
		if prev, ok := expressions[name]; ok && prev != s.expression {
			return fmt.Errorf("%w: '%s' and '%s' both bind '@%s'", ErrParameterCollision, prev, s.expression, name)
		}
		expressions[name] = s.expression
	}

	return nil
}
