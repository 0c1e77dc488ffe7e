package keyset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newArticleSorters(t *testing.T) *ValidSorters[tArticle] {
	t.Helper()

	sorters, err := NewValidSorters(articleIDSort, map[SortName]SortSpec[tArticle]{
		"created_at":     articleCreatedAtSort,
		"-created_at":    articleCreatedAtDescSort,
		"title":          articleTitleSort,
		"comments_count": mustCommentsCountSort(t, DirectionDESC),
	})
	require.NoError(t, err)

	return sorters
}

func Test_NewValidSorters_validation(t *testing.T) {
	_, err := NewValidSorters(SortSpec[tArticle]{}, nil)
	require.Error(t, err, "id sort is required")

	_, err = NewValidSorters(articleIDSort, map[SortName]SortSpec[tArticle]{" ": articleTitleSort})
	require.Error(t, err, "empty names are rejected")

	_, err = NewValidSorters(articleIDSort, map[SortName]SortSpec[tArticle]{"zero": {}})
	require.Error(t, err, "uninitialized sorts are rejected")

	colliding := MustSortSpec[tArticle]("articles_id", DirectionASC, func(a tArticle) string { return "" }, nil)
	_, err = NewValidSorters(articleIDSort, map[SortName]SortSpec[tArticle]{"colliding": colliding})
	require.ErrorIs(t, err, ErrParameterCollision)

	sorters, err := NewValidSorters[tArticle](articleIDSort, nil)
	require.NoError(t, err)
	require.Empty(t, sorters.Names())
}

func Test_ValidSorters_Lookup(t *testing.T) {
	sorters := newArticleSorters(t)

	s, ok, err := sorters.Lookup("title")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "articles.title", s.Expression())

	_, ok, err = sorters.Lookup("")
	require.NoError(t, err)
	require.False(t, ok, "no default sort configured")

	_, _, err = sorters.Lookup("creatd_at")
	require.ErrorIs(t, err, ErrUnknownSort)
	require.ErrorContains(t, err, "closest: 'created_at'")

	withDefault, err := sorters.WithDefault("-created_at")
	require.NoError(t, err)

	s, ok, err = withDefault.Lookup("  ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, DirectionDESC, s.Direction())

	_, ok, _ = sorters.Lookup("")
	require.False(t, ok, "WithDefault returns a copy")

	_, err = sorters.WithDefault("missing")
	require.ErrorIs(t, err, ErrUnknownSort)
}

func Test_closestAlias(t *testing.T) {
	tests := []struct {
		input   string
		dataSet []string
		want    string
	}{
		{"creatd_at", []string{"created_at", "updated_at", "title"}, "created_at"},
		{"titl", []string{"created_at", "title"}, "title"},
		{"ab", []string{"ac", "aa"}, "aa"},
		{"anything", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, closestAlias(tt.input, tt.dataSet))
		})
	}
}

func Test_ValidSorters_Decode(t *testing.T) {
	sorters := newArticleSorters(t).WithMaxLimit(20)
	require.Equal(t, 20, sorters.MaxLimit())

	pager, err := sorters.Decode(RawAfterCursorPager{Sort: "-created_at", After: "abc", Size: 500})
	require.NoError(t, err)
	require.Equal(t, 20, pager.GetLimit())
	require.Equal(t, "abc", pager.GetCursor())
	require.Equal(t, "articles.created_at DESC, articles.id", pager.Sorts().ToSQL())

	pager, err = sorters.Decode(RawAfterCursorPager{})
	require.NoError(t, err)
	require.Equal(t, 20, pager.GetLimit())
	require.Equal(t, "articles.id", pager.Sorts().ToSQL(), "no sort means tie-breaker order")

	_, err = sorters.Decode(RawAfterCursorPager{Sort: "popularity"})
	require.ErrorIs(t, err, ErrUnknownSort)
}

func Test_ValidSorters_Decode_paginates(t *testing.T) {
	db := newGORMSQLite(t)
	seedArticles(t, db,
		[]time.Time{_epoch.Add(time.Minute), _epoch, _epoch.Add(2 * time.Minute)},
		"b", "c", "a",
	)

	sorters, err := newArticleSorters(t).WithDefault("title")
	require.NoError(t, err)

	pager, err := sorters.Decode(RawAfterCursorPager{Size: 2})
	require.NoError(t, err)

	page, err := pager.Paginate(context.Background(), db.Table("articles"))
	require.NoError(t, err)
	require.Equal(t, []uint{3, 1}, ids(page.Items))
	require.True(t, page.HasNextPage())

	pager, err = sorters.Decode(RawAfterCursorPager{After: page.NextCursor, Size: 2})
	require.NoError(t, err)

	page, err = pager.Paginate(context.Background(), db.Table("articles"))
	require.NoError(t, err)
	require.Equal(t, []uint{2}, ids(page.Items))
	require.False(t, page.HasNextPage())
}
