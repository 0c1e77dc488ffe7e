// Package filter reads JSON:API filter[...] parameters and applies them to
// gorm queries.
package filter

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultDelimiter separates values of one filter, e.g. filter[id]=1,2,3.
const DefaultDelimiter = ","

// Processor reads "filter[name]=v1,v2" parameters. It never modifies the
// filters it was built from.
type Processor struct {
	filters      map[string]string
	delimiter    string
	skipUnpaired bool
}

func NewProcessor(filters map[string]string) *Processor {
	return &Processor{
		filters:   filters,
		delimiter: DefaultDelimiter,
	}
}

// WithDelimiter returns a copy that splits values by delimiter. The empty
// delimiter splits by runs of white space.
func (p *Processor) WithDelimiter(delimiter string) *Processor {
	ret := *p
	ret.delimiter = delimiter

	return &ret
}

// WithSkipUnpaired returns a copy whose Process drops groups in which some
// filter has no value at that position.
func (p *Processor) WithSkipUnpaired() *Processor {
	ret := *p
	ret.skipUnpaired = true

	return &ret
}

// Filters returns the raw filter parameters.
func (p *Processor) Filters() map[string]string {
	if p == nil || p.filters == nil {
		return map[string]string{}
	}

	return p.filters
}

func (p *Processor) NoFilters() bool {
	return p == nil || len(p.filters) == 0
}

// Values returns the split values of one filter. Absent filters have no values.
func (p *Processor) Values(name string) []string {
	if p.NoFilters() {
		return nil
	}

	raw, ok := p.filters[name]
	if !ok {
		return nil
	}

	if p.delimiter == "" {
		return strings.Fields(raw)
	}

	values := strings.Split(raw, p.delimiter)
	// "a,b,," has two values.
	for len(values) > 0 && values[len(values)-1] == "" {
		values = values[:len(values)-1]
	}

	return values
}

// Process groups the values of names positionally.
//
// With filters {a: "1,2,3", b: "4,5"}:
//
//	Process("a")      -> [[1] [2] [3]]
//	Process("a", "b") -> [[1 4] [2 5] [3 ""]]
//
// A missing member is "". With WithSkipUnpaired the last group above is
// dropped. No filters at all yield no groups.
func (p *Processor) Process(names ...string) [][]string {
	if p.NoFilters() || len(names) == 0 {
		return nil
	}

	values := lo.Map(names, func(name string, _ int) []string {
		return p.Values(name)
	})

	sizes := lo.Map(values, func(v []string, _ int) int { return len(v) })
	size := lo.Ternary(p.skipUnpaired, lo.Min(sizes), lo.Max(sizes))

	ret := make([][]string, 0, size)
	for i := range size {
		ret = append(ret, lo.Map(values, func(v []string, _ int) string {
			if i < len(v) {
				return v[i]
			}
			return ""
		}))
	}

	return ret
}
