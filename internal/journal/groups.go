// Package journal holds the derived views over stored entries: the
// month-grouped listing and the distinct tag vocabulary.
package journal

import (
	"time"

	"io.winapps.therapyjournal/internal/store"
)

// MonthKey derives the grouping key (four-digit year, dash, two-digit month)
// from an entry date. Dates that fail to parse as YYYY-MM-DD fall back to a
// plain prefix cut so a malformed row doesn't hide the whole entry.
func MonthKey(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		if len(date) >= 7 {
			return date[:7]
		}
		return date
	}
	return t.Format("2006-01")
}

// GroupByMonth buckets an already ordered entry list by the calendar month of
// each entry's date field. Order within a bucket is the input order.
func GroupByMonth(entries []store.Entry) map[string][]store.Entry {
	grouped := make(map[string][]store.Entry)
	for _, entry := range entries {
		key := MonthKey(entry.Date)
		grouped[key] = append(grouped[key], entry)
	}
	return grouped
}
