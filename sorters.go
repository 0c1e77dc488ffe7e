package keyset

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// RawAfterCursorPager is the typed form of the pagination request parameters.
// It is intended for API payloads. For proper code generation, inline it:
//
//	type ListArticlesRequest struct {
//	    Paging keyset.RawAfterCursorPager `json:",inline"`
//	}
type RawAfterCursorPager struct {
	// Sort - externally exposed name of the active sort. Empty means the
	// registry's default sort, if any.
	Sort string `json:"sort" validate:"omitempty,max=64"`
	// After - cursor token obtained from a previous page. If empty or
	// unusable, the first page is returned.
	After string `json:"after"`
	// Size - requested number of records. Clamped to the allowed range.
	Size int `json:"size"`
}

// SortName is an externally exposed sort name, e.g. "created_at".
type SortName = string

// ValidSorters maps externally exposed sort names to sort dimensions. Build it
// once at setup and share it between requests; it is never modified after
// construction.
type ValidSorters[T any] struct {
	id       SortSpec[T]
	sorters  map[SortName]SortSpec[T]
	fallback SortName
	maxLimit int
	logger   zerolog.Logger
}

// NewValidSorters validates every dimension and returns the registry.
func NewValidSorters[T any](id SortSpec[T], sorters map[SortName]SortSpec[T]) (*ValidSorters[T], error) {
	if id.IsZero() {
		return nil, fmt.Errorf("id sort is not set")
	}

	copied := make(map[SortName]SortSpec[T], len(sorters))
	for name, s := range sorters {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("empty sort name")
		}

		if s.IsZero() {
			return nil, fmt.Errorf("sort '%s' is not initialized", name)
		}

		if err := (Sorts[T]{s, id}).validate(); err != nil {
			return nil, fmt.Errorf("invalid sort '%s': %w", name, err)
		}

		copied[name] = s
	}

	return &ValidSorters[T]{
		id:       id,
		sorters:  copied,
		maxLimit: MaxLimit,
		logger:   zerolog.Nop(),
	}, nil
}

// WithDefault returns a copy of the registry that uses name when a request
// does not specify a sort.
func (v *ValidSorters[T]) WithDefault(name SortName) (*ValidSorters[T], error) {
	if _, ok := v.sorters[name]; !ok {
		return nil, fmt.Errorf("%w '%s' as default", ErrUnknownSort, name)
	}

	ret := *v
	ret.fallback = name

	return &ret, nil
}

// WithMaxLimit returns a copy of the registry with another page size ceiling.
func (v *ValidSorters[T]) WithMaxLimit(maxLimit int) *ValidSorters[T] {
	ret := *v
	ret.maxLimit = lo.Ternary(maxLimit > 0, maxLimit, MaxLimit)

	return &ret
}

// WithLogger returns a copy of the registry whose pagers log with logger.
func (v *ValidSorters[T]) WithLogger(logger zerolog.Logger) *ValidSorters[T] {
	ret := *v
	ret.logger = logger

	return &ret
}

// Names returns the registered sort names in no particular order.
func (v *ValidSorters[T]) Names() []SortName {
	return lo.Keys(v.sorters)
}

// MaxLimit returns the page size ceiling of the registry.
func (v *ValidSorters[T]) MaxLimit() int {
	return v.maxLimit
}

// Lookup resolves a sort name. The empty name resolves to the default sort;
// ok is false when there is none. Unknown names fail with ErrUnknownSort and
// a hint with the closest registered name.
func (v *ValidSorters[T]) Lookup(name SortName) (s SortSpec[T], ok bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if v.fallback == "" {
			return SortSpec[T]{}, false, nil
		}
		name = v.fallback
	}

	s, ok = v.sorters[name]
	if !ok {
		return SortSpec[T]{}, false, fmt.Errorf("%w '%s'. closest: '%s'", ErrUnknownSort, name, closestAlias(name, v.Names()))
	}

	return s, true, nil
}

// Decode converts validated request parameters into a pager with the active
// sort, cursor and page size applied.
func (v *ValidSorters[T]) Decode(raw RawAfterCursorPager) (*AfterCursorPager[T], error) {
	s, ok, err := v.Lookup(raw.Sort)
	if err != nil {
		return nil, err
	}

	pager := NewAfterCursorPager(v.id).
		WithMaxLimit(v.maxLimit).
		WithLimit(raw.Size).
		WithCursor(raw.After).
		WithLogger(v.logger)
	if ok {
		pager = pager.WithSort(s)
	}

	return pager, nil
}

func closestAlias(input SortName, dataSet []SortName) SortName {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
