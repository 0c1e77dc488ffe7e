// Package server exposes articles and comments as keyset-paginated JSON:API
// index endpoints.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Alp4ka/keyset"
	"github.com/Alp4ka/keyset/cache"
	"github.com/Alp4ka/keyset/jsonapi"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Logger   zerolog.Logger
	MaxLimit int
	// Cache is optional. When set, the article index is cached.
	Cache *cache.Cache
}

// ArticleSorters are the sorts of GET /articles.
func ArticleSorters(maxLimit int) (*keyset.ValidSorters[Article], error) {
	sorters, err := keyset.NewValidSorters(
		keyset.IDSortSpec("articles", func(a Article) any { return a.ID }),
		map[keyset.SortName]keyset.SortSpec[Article]{
			"created_at": keyset.MustTemporalSortSpec("created_at", keyset.DirectionASC, "articles",
				func(a Article) time.Time { return a.CreatedAt }),
			"updated_at": keyset.MustTemporalSortSpec("updated_at", keyset.DirectionASC, "articles",
				func(a Article) time.Time { return a.UpdatedAt }),
			"-created_at": keyset.MustTemporalSortSpec("created_at", keyset.DirectionDESC, "articles",
				func(a Article) time.Time { return a.CreatedAt }),
		},
	)
	if err != nil {
		return nil, err
	}

	return sorters.WithMaxLimit(maxLimit), nil
}

// PopularArticleSorters are the sorts of GET /articles/popular: by number of
// comments, most commented first by default.
func PopularArticleSorters(maxLimit int) (*keyset.ValidSorters[Article], error) {
	commentsCount := func(direction keyset.Direction) keyset.SortSpec[Article] {
		s, err := keyset.AggregateSortSpec("COUNT(comments.id)", direction,
			func(a Article) int64 { return a.CommentsCount })
		if err != nil {
			panic(err)
		}
		return s
	}

	sorters, err := keyset.NewValidSorters(
		keyset.IDSortSpec("articles", func(a Article) any { return a.ID }),
		map[keyset.SortName]keyset.SortSpec[Article]{
			"comments_count":  commentsCount(keyset.DirectionASC),
			"-comments_count": commentsCount(keyset.DirectionDESC),
		},
	)
	if err != nil {
		return nil, err
	}

	sorters, err = sorters.WithDefault("-comments_count")
	if err != nil {
		return nil, err
	}

	return sorters.WithMaxLimit(maxLimit), nil
}

// CommentSorters are the sorts of GET /articles/{id}/comments.
func CommentSorters(maxLimit int) (*keyset.ValidSorters[Comment], error) {
	sorters, err := keyset.NewValidSorters(
		keyset.IDSortSpec("comments", func(c Comment) any { return c.ID }),
		map[keyset.SortName]keyset.SortSpec[Comment]{
			"created_at": keyset.MustTemporalSortSpec("created_at", keyset.DirectionASC, "comments",
				func(c Comment) time.Time { return c.CreatedAt }),
			"-created_at": keyset.MustTemporalSortSpec("created_at", keyset.DirectionDESC, "comments",
				func(c Comment) time.Time { return c.CreatedAt }),
		},
	)
	if err != nil {
		return nil, err
	}

	sorters, err = sorters.WithDefault("created_at")
	if err != nil {
		return nil, err
	}

	return sorters.WithMaxLimit(maxLimit), nil
}

func NewRouter(deps Deps) (http.Handler, error) {
	articleSorters, err := ArticleSorters(deps.MaxLimit)
	if err != nil {
		return nil, fmt.Errorf("article sorters: %w", err)
	}

	popularSorters, err := PopularArticleSorters(deps.MaxLimit)
	if err != nil {
		return nil, fmt.Errorf("popular article sorters: %w", err)
	}

	commentSorters, err := CommentSorters(deps.MaxLimit)
	if err != nil {
		return nil, fmt.Errorf("comment sorters: %w", err)
	}

	articles := jsonapi.NewIndex(deps.DB, articleSorters.WithLogger(deps.Logger), articlesScope).
		WithFilters(jsonapi.DefaultFilters("articles")).
		WithCache(deps.Cache).
		WithLogger(deps.Logger)

	popular := jsonapi.NewIndex(deps.DB, popularSorters.WithLogger(deps.Logger), popularArticlesScope).
		WithFilters(jsonapi.DefaultFilters("articles")).
		WithLogger(deps.Logger)

	comments := jsonapi.NewIndex(deps.DB, commentSorters.WithLogger(deps.Logger), articleCommentsScope).
		WithFilters(jsonapi.DefaultFilters("comments")).
		WithLogger(deps.Logger)

	router := mux.NewRouter()
	router.Use(requestLog(deps.Logger))
	router.Handle("/articles", articles).Methods(http.MethodGet)
	router.Handle("/articles/popular", popular).Methods(http.MethodGet)
	router.Handle("/articles/{id:[0-9]+}/comments", comments).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	return router, nil
}

func articlesScope(_ *http.Request, db *gorm.DB) *gorm.DB {
	return db.Model(&Article{})
}

func popularArticlesScope(_ *http.Request, db *gorm.DB) *gorm.DB {
	return db.Model(&Article{}).
		Select("articles.*, COUNT(comments.id) AS comments_count").
		Joins("LEFT JOIN comments ON comments.article_id = articles.id")
}

func articleCommentsScope(r *http.Request, db *gorm.DB) *gorm.DB {
	return db.Model(&Comment{}).Where("comments.article_id = ?", mux.Vars(r)["id"])
}
