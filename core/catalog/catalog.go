// Package catalog filters beat records for public display.
package catalog

import (
	"strings"

	"beatstore/model"
)

// ListedOnly returns the records that are visible in the public catalog,
// preserving order.
func ListedOnly(records []*model.Beat) []*model.Beat {
	out := make([]*model.Beat, 0, len(records))
	for _, record := range records {
		if record.Listed {
			out = append(out, record)
		}
	}
	return out
}

// Search matches query as a case-insensitive substring of the title. An
// empty query returns the input unchanged.
func Search(records []*model.Beat, query string) []*model.Beat {
	if query == "" {
		return records
	}

	q := strings.ToLower(query)
	out := make([]*model.Beat, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Title), q) {
			out = append(out, record)
		}
	}
	return out
}
