package keyset

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func Test_tLexicographic_sql(t *testing.T) {
	createdAt := tBound{Expression: "created_at", Param: "created_at", Value: int64(100), Operator: OperatorGT}
	title := tBound{Expression: "title", Param: "title", Value: "b", Operator: OperatorLT}
	id := tBound{Expression: "id", Param: "id", Value: int64(5), Operator: OperatorGT}

	tests := []struct {
		name string
		l    tLexicographic
		sql  string
		vars map[string]any
	}{
		{
			name: "empty",
			l:    nil,
			sql:  "",
			vars: map[string]any{},
		},
		{
			name: "one dimension",
			l:    tLexicographic{id},
			sql:  "id > @id",
			vars: map[string]any{"id": int64(5)},
		},
		{
			name: "two dimensions",
			l:    tLexicographic{createdAt, id},
			sql:  "created_at > @created_at OR (created_at = @created_at AND id > @id)",
			vars: map[string]any{"created_at": int64(100), "id": int64(5)},
		},
		{
			name: "three dimensions with mixed directions",
			l:    tLexicographic{createdAt, title, id},
			sql: "created_at > @created_at OR (created_at = @created_at AND " +
				"(title < @title OR (title = @title AND id > @id)))",
			vars: map[string]any{"created_at": int64(100), "title": "b", "id": int64(5)},
		},
		{
			name: "repeated expression with own parameters",
			l: tLexicographic{
				{Expression: "id", Param: "id", Value: int64(4), Operator: OperatorLT},
				{Expression: "id", Param: "id_1", Value: int64(9), Operator: OperatorGT},
			},
			sql:  "id < @id OR (id = @id AND id > @id_1)",
			vars: map[string]any{"id": int64(4), "id_1": int64(9)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.sql, tt.l.sql())
			require.Equal(t, tt.vars, tt.l.vars())
		})
	}
}

func Test_tLexicographic_toSQLClause(t *testing.T) {
	sql, vars := tLexicographic(nil).toSQLClause()
	require.Equal(t, "TRUE", sql)
	require.Nil(t, vars)

	sql, vars = tLexicographic{{Expression: "id", Param: "id", Value: int64(10), Operator: OperatorGT}}.toSQLClause()
	require.Equal(t, "(id > @id)", sql)
	require.Equal(t, map[string]any{"id": int64(10)}, vars)
}

func Test_tLexicographic_toGORMExpression(t *testing.T) {
	require.Nil(t, tLexicographic(nil).toGORMExpression())

	exp := tLexicographic{
		{Expression: "created_at", Param: "created_at", Value: int64(1), Operator: OperatorLT},
		{Expression: "id", Param: "id", Value: int64(2), Operator: OperatorGT},
	}.toGORMExpression()

	require.Equal(t, clause.NamedExpr{
		SQL:  "created_at < @created_at OR (created_at = @created_at AND id > @id)",
		Vars: []any{map[string]any{"created_at": int64(1), "id": int64(2)}},
	}, exp)
}
