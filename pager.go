package keyset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Page is the result of AfterCursorPager.Paginate.
type Page[T any] struct {
	// Items page elements in sort order.
	Items []T
	// AppliedLimit effective page size used for the query.
	AppliedLimit int
	// NextCursor token of the next page. Empty on the last page.
	NextCursor string
}

// HasNextPage reports whether at least one row exists after this page.
func (p *Page[T]) HasNextPage() bool {
	return p != nil && p.NextCursor != ""
}

// AfterCursorPager paginates a gorm query after a cursor position. It is
// built per request and must not be shared between goroutines while being
// configured.
//
//	page, err := keyset.NewAfterCursorPager(idSort).
//		WithSort(createdAtSort).
//		WithCursor(req.After).
//		WithLimit(req.Size).
//		Paginate(ctx, db.Model(&Article{}))
type AfterCursorPager[T any] struct {
	lookahead bool
	limit     int
	maxLimit  int
	cursor    string
	id        SortSpec[T]
	sort      Sorts[T]
	logger    zerolog.Logger
}

// NewAfterCursorPager returns a pager whose rows are finally ordered by id.
func NewAfterCursorPager[T any](id SortSpec[T]) *AfterCursorPager[T] {
	return &AfterCursorPager[T]{
		id:       id,
		maxLimit: MaxLimit,
		logger:   zerolog.Nop(),
	}
}

// WithLookahead makes Paginate fetch one extra row to detect the next page
// instead of running a separate probe query.
func (c *AfterCursorPager[T]) WithLookahead() *AfterCursorPager[T] {
	if c == nil {
		c = new(AfterCursorPager[T])
	}

	c.lookahead = true

	return c
}

// WithLimit sets the requested page size. It is clamped to [1, max limit];
// a non-positive value means the max limit.
func (c *AfterCursorPager[T]) WithLimit(limit int) *AfterCursorPager[T] {
	if c == nil {
		c = new(AfterCursorPager[T])
	}

	c.limit = limit

	return c
}

// WithMaxLimit sets the page size ceiling. Non-positive values restore MaxLimit.
func (c *AfterCursorPager[T]) WithMaxLimit(maxLimit int) *AfterCursorPager[T] {
	if c == nil {
		c = new(AfterCursorPager[T])
	}

	c.maxLimit = lo.Ternary(maxLimit > 0, maxLimit, MaxLimit)

	return c
}

// WithCursor sets the raw cursor token received from the client.
func (c *AfterCursorPager[T]) WithCursor(cursor string) *AfterCursorPager[T] {
	if c == nil {
		c = new(AfterCursorPager[T])
	}

	c.cursor = cursor

	return c
}

// WithSort appends active sort dimensions. The id tie-breaker must not be
// passed here, it is always added last.
func (c *AfterCursorPager[T]) WithSort(sorts ...SortSpec[T]) *AfterCursorPager[T] {
	if c == nil {
		c = new(AfterCursorPager[T])
	}

	c.sort = append(c.sort, sorts...)

	return c
}

// WithLogger sets the logger used to report ignored cursors.
func (c *AfterCursorPager[T]) WithLogger(logger zerolog.Logger) *AfterCursorPager[T] {
	if c == nil {
		c = new(AfterCursorPager[T])
	}

	c.logger = logger

	return c
}

// GetSort returns the active sort dimensions, without the tie-breaker.
func (c *AfterCursorPager[T]) GetSort() Sorts[T] {
	if c == nil {
		return nil
	}

	return c.sort
}

// Sorts returns every dimension the dataset is ordered by: the active ones
// followed by the id tie-breaker.
func (c *AfterCursorPager[T]) Sorts() Sorts[T] {
	if c == nil {
		return nil
	}

	ret := make(Sorts[T], 0, len(c.sort)+1)
	ret = append(ret, c.sort...)

	return append(ret, c.id)
}

// GetCursor returns the raw cursor as it was set.
func (c *AfterCursorPager[T]) GetCursor() string {
	if c == nil {
		return ""
	}

	return c.cursor
}

// GetLimit returns the clamped page size.
func (c *AfterCursorPager[T]) GetLimit() int {
	if c == nil {
		return NormalizeLimit(0)
	}

	return NormalizeLimitMax(c.limit, c.maxLimit)
}

// IsLookahead returns true if lookahead pagination is enabled.
func (c *AfterCursorPager[T]) IsLookahead() bool {
	if c == nil {
		return false
	}

	return c.lookahead
}

// GetDatasetLimit returns the limit adjusted for lookahead:
//   - if Lookahead = true → GetLimit() + 1
//   - if Lookahead = false → GetLimit()
func (c *AfterCursorPager[T]) GetDatasetLimit() int {
	limit := c.GetLimit()
	isLookahead := c.IsLookahead()

	return lo.Ternary(isLookahead, limit+1, limit)
}

// Apply orders the dataset by every dimension, filters out rows that are not
// strictly after the cursor position and limits the result. Aggregate sorts
// group the dataset by id and filter with HAVING.
//
// An unusable cursor is ignored and the first page is selected.
func (c *AfterCursorPager[T]) Apply(db *gorm.DB) (*gorm.DB, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	sorts := c.Sorts()
	db = sorts.Apply(db)

	exp := c.position(sorts).toGORMExpression()
	if c.sort.HasAggregate() {
		db = db.Group(c.id.Expression())
		if exp != nil {
			db = db.Having(exp)
		}
	} else if exp != nil {
		db = db.Where(exp)
	}

	return db.Limit(c.GetDatasetLimit()), nil
}

// ToSQL returns the cursor condition as an SQL expression with named
// parameters, or "TRUE" when there is no usable cursor.
//
// Usage:
//
//	cond, vars := p.ToSQL()
//	db.Raw(fmt.Sprintf("SELECT * FROM t WHERE %s ORDER BY %s", cond, p.Sorts().ToSQL()), vars)
func (c *AfterCursorPager[T]) ToSQL() (string, map[string]any) {
	if c == nil {
		return "TRUE", nil
	}

	return c.position(c.Sorts()).toSQLClause()
}

// Paginate fetches the page and computes its next cursor. Unless lookahead is
// enabled, a full page is followed by a LIMIT 1 probe positioned at the last
// returned row; the next cursor is set only if the probe finds a row.
//
// Query errors are returned unchanged apart from wrapping.
func (c *AfterCursorPager[T]) Paginate(ctx context.Context, db *gorm.DB) (*Page[T], error) {
	base := db.WithContext(ctx)

	query, err := c.Apply(base)
	if err != nil {
		return nil, err
	}

	var items []T
	if err = query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	page := &Page[T]{AppliedLimit: c.GetLimit()}
	if IsLastPage(c, items) {
		page.Items = items
		return page, nil
	}

	page.Items = TrimResultSet(c, items)
	next := c.CursorOf(lo.LastOrEmpty(page.Items))

	if !c.lookahead {
		exists, err := c.probe(base, next)
		if err != nil {
			return nil, err
		}
		if !exists {
			return page, nil
		}
	}

	page.NextCursor = next
	c.logger.Debug().
		Int("items", len(page.Items)).
		Int("limit", page.AppliedLimit).
		Msg("next page cursor built")

	return page, nil
}

// CursorOf encodes the position of record: one serialized token per
// dimension, in sort order.
func (c *AfterCursorPager[T]) CursorOf(record T) string {
	return EncodeCursor(lo.Map(c.Sorts(), func(s SortSpec[T], _ int) string {
		return s.Serialize(record)
	}))
}

func (c *AfterCursorPager[T]) probe(db *gorm.DB, cursor string) (bool, error) {
	probe := *c
	probe.lookahead = false

	query, err := probe.WithCursor(cursor).WithLimit(1).Apply(db)
	if err != nil {
		return false, err
	}

	var rows []T
	if err = query.Find(&rows).Error; err != nil {
		return false, fmt.Errorf("cannot probe next page: %w", err)
	}

	return len(rows) > 0, nil
}

// position decodes the cursor against sorts. It returns nil, meaning "start
// from the beginning", for an absent cursor and for any cursor that is
// malformed, has a different number of tokens, or holds a token rejected by
// its dimension's codec.
func (c *AfterCursorPager[T]) position(sorts Sorts[T]) tLexicographic {
	if c.cursor == "" {
		return nil
	}

	tokens, err := DecodeCursor(c.cursor)
	if err != nil {
		c.logger.Debug().Err(err).Msg("ignoring cursor")
		return nil
	}

	// Cursors built for another sort configuration are meaningless here.
	if len(tokens) != len(sorts) {
		c.logger.Debug().
			Int("tokens", len(tokens)).
			Int("sorts", len(sorts)).
			Msg("ignoring cursor: dimension count mismatch")
		return nil
	}

	ret := make(tLexicographic, 0, len(sorts))
	params := make(map[string]struct{}, len(sorts))
	for i, s := range sorts {
		value, err := s.Deserialize(tokens[i])
		if err != nil {
			c.logger.Debug().Err(err).Str("sort", s.Expression()).Msg("ignoring cursor")
			return nil
		}

		// A repeated expression binds its own value. Parameter names never
		// contain digits, so the suffixed name cannot collide.
		param := s.ParameterName()
		if _, ok := params[param]; ok {
			param = fmt.Sprintf("%s_%d", param, i)
		}
		params[param] = struct{}{}

		ret = append(ret, tBound{
			Expression: s.Expression(),
			Param:      param,
			Value:      value,
			Operator:   s.Direction().ForOperator(),
		})
	}

	return ret
}

func (c *AfterCursorPager[T]) validate() error {
	if c == nil {
		return fmt.Errorf("cursor pager is nil")
	}

	if c.id.IsZero() {
		return fmt.Errorf("id sort is not set")
	}

	if c.id.IsAggregate() {
		return fmt.Errorf("id sort '%s' cannot be an aggregate", c.id.Expression())
	}

	if c.sort.HasAggregate() && !lo.EveryBy(c.sort, func(s SortSpec[T]) bool { return s.IsAggregate() }) {
		return ErrMixedAggregate
	}

	return c.Sorts().validate()
}

// IsLastPage returns true if the result set is the last page in the dataset.
//
// The last page is determined by one of two conditions:
//  1. The number of returned records is less than the limit.
//  2. Lookahead = true and the number of returned records is less than or
//     equal to the limit.
func IsLastPage[T any](pager *AfterCursorPager[T], resultSet []T) bool {
	limit := pager.GetLimit()

	return len(resultSet) < limit ||
		(pager.IsLookahead() && len(resultSet) <= limit)
}

// TrimResultSet trims the result set to what should be returned to the client.
//
// If lookahead = true, drop the last element before returning. Suppose
// resultSet = [a, b, c].
//
//   - With lookahead → resultSet becomes [a, b].
//   - Without lookahead → resultSet remains unchanged.
//
// Call it only when IsLastPage is false.
func TrimResultSet[T any](pager *AfterCursorPager[T], resultSet []T) []T {
	if pager.IsLookahead() && len(resultSet) > 0 {
		resultSet = resultSet[:len(resultSet)-1]
	}

	return resultSet
}
