package jsonapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Alp4ka/keyset"
	"github.com/Alp4ka/keyset/cache"
	"github.com/Alp4ka/keyset/filter"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Scope restricts the collection to what the request may see.
type Scope func(r *http.Request, db *gorm.DB) *gorm.DB

// Filters applies filter[...] parameters to the collection.
type Filters func(db *gorm.DB, p *filter.Processor) (*gorm.DB, error)

// Index serves a paginated collection of T:
//
//	scope -> filters -> [cache: post-cache filters -> paginate -> render]
//
// Without a cache the bracketed part runs on every request.
type Index[T any] struct {
	db               *gorm.DB
	sorters          *keyset.ValidSorters[T]
	scope            Scope
	filters          []Filters
	postCacheFilters []Filters
	cache            *cache.Cache
	logger           zerolog.Logger
}

func NewIndex[T any](db *gorm.DB, sorters *keyset.ValidSorters[T], scope Scope) *Index[T] {
	return &Index[T]{
		db:      db,
		sorters: sorters,
		scope:   scope,
		logger:  zerolog.Nop(),
	}
}

// WithFilters returns a copy that also applies filters before the cache lookup.
func (h *Index[T]) WithFilters(filters ...Filters) *Index[T] {
	ret := *h
	ret.filters = append(append([]Filters(nil), h.filters...), filters...)

	return &ret
}

// WithPostCacheFilters returns a copy that also applies filters inside the
// cached computation, for filters too expensive to run on every request.
func (h *Index[T]) WithPostCacheFilters(filters ...Filters) *Index[T] {
	ret := *h
	ret.postCacheFilters = append(append([]Filters(nil), h.postCacheFilters...), filters...)

	return &ret
}

// WithCache returns a copy that caches rendered pages by path and query.
func (h *Index[T]) WithCache(c *cache.Cache) *Index[T] {
	ret := *h
	ret.cache = c

	return &ret
}

func (h *Index[T]) WithLogger(logger zerolog.Logger) *Index[T] {
	ret := *h
	ret.logger = logger

	return &ret
}

func (h *Index[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	raw, err := ParsePageParams(query)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	pager, err := h.sorters.Decode(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	processor := filter.NewProcessor(ParseFilters(query))

	scope := h.db.WithContext(ctx)
	if h.scope != nil {
		scope = h.scope(r, scope)
	}

	scope, err = applyFilters(scope, processor, h.filters)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := h.cache.Fetch(ctx, cache.Key(r.URL.Path, query), func(ctx context.Context) ([]byte, error) {
		filtered, err := applyFilters(scope, processor, h.postCacheFilters)
		if err != nil {
			return nil, err
		}

		page, err := pager.Paginate(ctx, filtered)
		if err != nil {
			return nil, err
		}

		return json.Marshal(NewDocument(page))
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, filter.ErrInvalidFilter) {
			status = http.StatusBadRequest
		}
		h.writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		h.logger.Warn().Err(err).Msg("cannot write response")
	}
}

func applyFilters(db *gorm.DB, p *filter.Processor, filters []Filters) (*gorm.DB, error) {
	var err error
	for _, f := range filters {
		if db, err = f(db, p); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func (h *Index[T]) writeError(w http.ResponseWriter, status int, err error) {
	detail := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("index request failed")
		detail = ""
	} else {
		h.logger.Debug().Err(err).Msg("index request rejected")
	}

	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)

	doc := ErrorDocument{Errors: []ErrorObject{{
		Status: fmt.Sprint(status),
		Title:  http.StatusText(status),
		Detail: detail,
	}}}
	if err = json.NewEncoder(w).Encode(doc); err != nil {
		h.logger.Warn().Err(err).Msg("cannot write error response")
	}
}

// DefaultFilters applies the id and updated_after filters on table.
func DefaultFilters(table string) Filters {
	return func(db *gorm.DB, p *filter.Processor) (*gorm.DB, error) {
		return filter.ApplyDefaults(db, p, table)
	}
}
