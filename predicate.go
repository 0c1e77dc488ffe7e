package keyset

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	// tBound is one dimension of the cursor position: the expression, the
	// strict operator of its direction, and the value bound as @Param.
	tBound struct {
		Expression string
		Param      string
		Value      any
		Operator   Operator
	}

	// tLexicographic is the "strictly after" predicate over an ordered list
	// of bounds b0..bN:
	//
	//	b0.cmp OR (b0.eq AND (b1.cmp OR (b1.eq AND ... bN.cmp)))
	//
	// A row matches iff, at the first dimension where it differs from the
	// position, it lies after the position in that dimension's direction.
	tLexicographic []tBound
)

// compareSQL returns "Expression Operator @Param".
//
// Example:
//
//	tBound{Expression: "id", Param: "id", Operator: ">"} -> "id > @id"
func (b tBound) compareSQL() string {
	return fmt.Sprintf("%s %s @%s", b.Expression, b.Operator, b.Param)
}

// equalSQL returns "Expression = @Param".
func (b tBound) equalSQL() string {
	return fmt.Sprintf("%s %s @%s", b.Expression, operatorEq, b.Param)
}

// sql renders the nested predicate without outer parentheses.
//
// Example for (created_at ASC, id ASC):
//
//	"created_at > @created_at OR (created_at = @created_at AND id > @id)"
func (l tLexicographic) sql() string {
	if len(l) == 0 {
		return ""
	}

	ret := l[len(l)-1].compareSQL()
	for i := len(l) - 2; i >= 0; i-- {
		inner := ret
		if i < len(l)-2 {
			inner = fmt.Sprintf("(%s)", ret)
		}
		ret = fmt.Sprintf("%s OR (%s AND %s)", l[i].compareSQL(), l[i].equalSQL(), inner)
	}

	return ret
}

// vars returns the named values of the predicate. Params are unique per
// bound.
func (l tLexicographic) vars() map[string]any {
	return lo.SliceToMap(l, func(b tBound) (string, any) {
		return b.Param, b.Value
	})
}

// toGORMExpression converts the predicate into a named gorm expression.
// Returns nil for an empty predicate.
func (l tLexicographic) toGORMExpression() clause.Expression {
	if len(l) == 0 {
		return nil
	}

	return clause.NamedExpr{
		SQL:  l.sql(),
		Vars: []any{l.vars()},
	}
}

// toSQLClause returns the predicate wrapped in parentheses with its named
// values, or "TRUE" when there is no position to compare against.
//
// Example:
//
//	("(id > @id)", {"id": 10})
func (l tLexicographic) toSQLClause() (string, map[string]any) {
	if len(l) == 0 {
		return "TRUE", nil
	}

	return fmt.Sprintf("(%s)", l.sql()), l.vars()
}
