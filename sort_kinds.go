package keyset

import (
	"fmt"
	"strconv"
	"time"
)

// IDSortSpec returns the tie-breaker dimension: the table's unique "id"
// column, ascending. Tokens are the id's natural text form. Tokens that parse
// as base-10 integers are bound as int64 so typed drivers compare numbers.
func IDSortSpec[T any](table string, id func(T) any) SortSpec[T] {
	return MustSortSpec[T](
		qualify(table, "id"),
		DirectionASC,
		func(record T) string {
			return fmt.Sprint(id(record))
		},
		func(token string) (any, error) {
			if n, err := strconv.ParseInt(token, 10, 64); err == nil {
				return n, nil
			}
			return token, nil
		},
	)
}

// TemporalSortSpec returns a dimension over a timestamp column. Tokens are
// epoch seconds, so values are compared with second precision.
func TemporalSortSpec[T any](field string, direction Direction, table string, at func(T) time.Time) (SortSpec[T], error) {
	return NewSortSpec[T](
		qualify(table, field),
		direction,
		func(record T) string {
			t := at(record)
			if t.IsZero() {
				return "0"
			}
			return strconv.FormatInt(t.Unix(), 10)
		},
		func(token string) (any, error) {
			sec, err := strconv.ParseInt(token, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid epoch '%s': %w", token, err)
			}
			return time.Unix(sec, 0).UTC(), nil
		},
	)
}

// MustTemporalSortSpec is like TemporalSortSpec but panics on a configuration error.
func MustTemporalSortSpec[T any](field string, direction Direction, table string, at func(T) time.Time) SortSpec[T] {
	s, err := TemporalSortSpec(field, direction, table, at)
	if err != nil {
		panic(err)
	}

	return s
}

// AggregateSortSpec returns a dimension over an integer aggregate expression
// such as "COUNT(comments.id)". The query must select the aggregate so that
// count can read it back from the record.
func AggregateSortSpec[T any](expression string, direction Direction, count func(T) int64) (SortSpec[T], error) {
	s, err := NewSortSpec[T](
		expression,
		direction,
		func(record T) string {
			return strconv.FormatInt(count(record), 10)
		},
		func(token string) (any, error) {
			n, err := strconv.ParseInt(token, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid count '%s': %w", token, err)
			}
			return n, nil
		},
	)
	if err != nil {
		return SortSpec[T]{}, err
	}

	if !s.IsAggregate() {
		return SortSpec[T]{}, fmt.Errorf("'%s' is not an aggregate expression", expression)
	}

	return s, nil
}

func qualify(table, column string) string {
	if table == "" {
		return column
	}

	return table + "." + column
}
