package filter

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	NameID           = "id"
	NameUpdatedAfter = "updated_after"
)

var ErrInvalidFilter = errors.New("invalid filter")

// ApplySimple adds "column IN (values)" for every column that has a filter of
// the same name.
func ApplySimple(db *gorm.DB, p *Processor, columns ...string) *gorm.DB {
	for _, column := range columns {
		db = ApplyColumn(db, p, column, column)
	}

	return db
}

// ApplyColumn adds "column IN (values)" when filter name has values.
func ApplyColumn(db *gorm.DB, p *Processor, name, column string) *gorm.DB {
	values := p.Values(name)
	if len(values) == 0 {
		return db
	}

	return db.Where(clause.IN{
		Column: clause.Column{Name: column},
		Values: lo.ToAnySlice(values),
	})
}

// ApplyUpdatedAfter adds "column > t" for every epoch-seconds value of the
// updated_after filter.
func ApplyUpdatedAfter(db *gorm.DB, p *Processor, column string) (*gorm.DB, error) {
	for _, value := range p.Values(NameUpdatedAfter) {
		sec, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %s='%s': %v", ErrInvalidFilter, NameUpdatedAfter, value, err)
		}

		db = db.Where(clause.Gt{
			Column: clause.Column{Name: column},
			Value:  time.Unix(sec, 0).UTC(),
		})
	}

	return db, nil
}

// ApplyDefaults applies the filters every index endpoint supports: id and
// updated_after on the given table.
func ApplyDefaults(db *gorm.DB, p *Processor, table string) (*gorm.DB, error) {
	db = ApplyColumn(db, p, NameID, table+".id")

	return ApplyUpdatedAfter(db, p, table+".updated_at")
}
