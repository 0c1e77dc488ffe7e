// Package jsonapi serves keyset-paginated JSON:API index endpoints.
package jsonapi

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Alp4ka/keyset"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	ParamSort       = "sort"
	ParamPageAfter  = "page[after]"
	ParamPageCursor = "page[cursor]"
	ParamPageSize   = "page[size]"

	filterPrefix = "filter["
	filterSuffix = "]"
)

var ErrInvalidParams = errors.New("invalid params")

var _validate = validator.New()

// ParsePageParams reads sort, page[after] (or its alias page[cursor]) and
// page[size]. A non-integer size reads as absent; range checks are left to
// the pager, which clamps. The cursor is passed through as-is.
func ParsePageParams(query url.Values) (keyset.RawAfterCursorPager, error) {
	after, _ := lo.Coalesce(query.Get(ParamPageAfter), query.Get(ParamPageCursor))

	raw := keyset.RawAfterCursorPager{
		Sort:  strings.TrimSpace(query.Get(ParamSort)),
		After: after,
	}

	if n, err := strconv.Atoi(strings.TrimSpace(query.Get(ParamPageSize))); err == nil {
		raw.Size = n
	}

	if err := _validate.Struct(raw); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := lo.Map(validationErrors, func(e validator.FieldError, _ int) string {
				return fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag())
			})
			return keyset.RawAfterCursorPager{}, fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, "; "))
		}
		return keyset.RawAfterCursorPager{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	return raw, nil
}

// ParseFilters collects filter[name]=value parameters. Repeated parameters
// are joined with the default filter delimiter.
func ParseFilters(query url.Values) map[string]string {
	ret := make(map[string]string)

	keys := lo.Keys(query)
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.HasPrefix(key, filterPrefix) || !strings.HasSuffix(key, filterSuffix) {
			continue
		}

		name := strings.TrimSuffix(strings.TrimPrefix(key, filterPrefix), filterSuffix)
		if name == "" {
			continue
		}

		ret[name] = strings.Join(query[key], ",")
	}

	return ret
}
