package keyset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tArticle struct {
	ID            uint `gorm:"primaryKey"`
	Title         string
	CreatedAt     time.Time
	CommentsCount int64 `gorm:"->;-:migration"`
}

func (tArticle) TableName() string { return "articles" }

type tComment struct {
	ID        uint `gorm:"primaryKey"`
	ArticleID uint
}

func (tComment) TableName() string { return "comments" }

var (
	_epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	articleIDSort = IDSortSpec("articles", func(a tArticle) any { return a.ID })

	articleIDDescSort = MustSortSpec[tArticle](
		"articles.id",
		DirectionDESC,
		articleIDSort.Serialize,
		articleIDSort.Deserialize,
	)

	articleCreatedAtSort = MustTemporalSortSpec("created_at", DirectionASC, "articles",
		func(a tArticle) time.Time { return a.CreatedAt })

	articleCreatedAtDescSort = MustTemporalSortSpec("created_at", DirectionDESC, "articles",
		func(a tArticle) time.Time { return a.CreatedAt })

	articleTitleSort = MustSortSpec[tArticle](
		"articles.title",
		DirectionASC,
		func(a tArticle) string { return a.Title },
		nil,
	)
)

func mustCommentsCountSort(t *testing.T, direction Direction) SortSpec[tArticle] {
	t.Helper()

	s, err := AggregateSortSpec("COUNT(comments.id)", direction, func(a tArticle) int64 { return a.CommentsCount })
	require.NoError(t, err)

	return s
}

// seedArticles creates articles with ids 1..len(createdAt).
func seedArticles(t *testing.T, db *gorm.DB, createdAt []time.Time, titles ...string) []tArticle {
	t.Helper()

	require.NoError(t, db.AutoMigrate(&tArticle{}, &tComment{}))

	articles := make([]tArticle, 0, len(createdAt))
	for i, at := range createdAt {
		a := tArticle{ID: uint(i + 1), CreatedAt: at}
		if i < len(titles) {
			a.Title = titles[i]
		}
		articles = append(articles, a)
	}
	require.NoError(t, db.Create(&articles).Error)

	return articles
}

func ids(articles []tArticle) []uint {
	ret := make([]uint, 0, len(articles))
	for _, a := range articles {
		ret = append(ret, a.ID)
	}

	return ret
}
