// Package keyset provides after-cursor (keyset) pagination primitives for GORM.
//
// Overview
//
// A page is described by an ordered list of sort dimensions (SortSpec). The
// collection's unique identifier is always appended as the final tie-breaker,
// so the dimension tuple is a strict total order over all rows. An opaque
// cursor carries one token per dimension, taken from the last row of the
// previous page, and the next page is selected with a strict lexicographic
// comparison against that position:
//
//	d0 > v0 OR (d0 = v0 AND (d1 > v1 OR (d1 = v1 AND ... dN > vN)))
//
// No rows are skipped or counted, so the cost of a page does not depend on its
// depth in the dataset.
//
// Key concepts
//   - SortSpec: one dimension with its direction and token codec.
//     IDSortSpec, TemporalSortSpec and AggregateSortSpec are preconfigured kinds.
//   - AfterCursorPager: orders, filters and limits a GORM query for one request
//     and computes the cursor of the next page.
//   - ValidSorters: the registry of externally exposed sort names, built once
//     at setup and used to decode typed request parameters.
//   - EncodeCursor / DecodeCursor: the transport-safe cursor format.
//
// A malformed, stale or foreign cursor never fails a request: it is ignored and
// pagination restarts from the first page.
package keyset
