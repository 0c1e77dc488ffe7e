package keyset

import (
	"fmt"
	"strings"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

// ParseDirection parses "asc" or "desc" in any letter case. An empty string
// means ascending.
func ParseDirection(s string) (Direction, error) {
	if strings.TrimSpace(s) == "" {
		return DirectionASC, nil
	}

	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w '%s'", ErrInvalidDirection, s)
	}

	return d, nil
}
