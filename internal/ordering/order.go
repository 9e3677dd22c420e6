// Package ordering derives deterministic display orders for email lists.
package ordering

import (
	"sort"
	"time"
)

// SortByDate returns a copy of items ordered for display: dated records
// first with the latest date on top, undated records after them in their
// input order. The sort is stable, so equal dates keep input order too.
func SortByDate[T any](items []T, date func(T) (float64, bool)) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		di, iok := date(out[i])
		dj, jok := date(out[j])
		switch {
		case iok && jok:
			return di > dj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}

// SortBySentAt returns a copy of items ordered by send instant, most recent
// first. Records whose instant cannot be parsed go last in input order.
func SortBySentAt[T any](items []T, sentAt func(T) (time.Time, bool)) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := sentAt(out[i])
		tj, jok := sentAt(out[j])
		switch {
		case iok && jok:
			return ti.After(tj)
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}
