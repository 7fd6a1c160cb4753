package project

import (
	"sort"
	"strings"
)

// NoneSelected is the leading entry of a selection list.
const NoneSelected = ""

// FilterAndSort returns project IDs newest first whose ID contains term,
// ignoring case. Ties on created_at keep collection order.
func FilterAndSort(coll *Collection, term string) []string {
	recs := coll.Records()
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt > recs[j].CreatedAt
	})

	needle := strings.ToLower(term)
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		if needle == "" || strings.Contains(strings.ToLower(rec.ID), needle) {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// SelectionOptions returns FilterAndSort prefixed with the NoneSelected entry.
func SelectionOptions(coll *Collection, term string) []string {
	return append([]string{NoneSelected}, FilterAndSort(coll, term)...)
}
