package output

import (
	"fmt"
	"io"

	"tnved-tariffs/core/schedule"
	"tnved-tariffs/core/tariff"
)

// KindCount is how many rows share a tariff kind
type KindCount struct {
	Kind  tariff.Kind `json:"kind"`
	Count int         `json:"count"`
}

// CountKinds tallies kinds in the order they first appear
func CountKinds(rows []schedule.CommodityRow) []KindCount {
	index := make(map[tariff.Kind]int)
	var counts []KindCount
	for _, r := range rows {
		i, ok := index[r.Tariff.Kind]
		if !ok {
			i = len(counts)
			index[r.Tariff.Kind] = i
			counts = append(counts, KindCount{Kind: r.Tariff.Kind})
		}
		counts[i].Count++
	}
	return counts
}

// CountAllKinds tallies every known kind in declaration order, including
// kinds no row has
func CountAllKinds(rows []schedule.CommodityRow) []KindCount {
	kinds := tariff.Kinds()
	index := make(map[tariff.Kind]int, len(kinds))
	counts := make([]KindCount, len(kinds))
	for i, k := range kinds {
		index[k] = i
		counts[i].Kind = k
	}
	for _, r := range rows {
		if i, ok := index[r.Tariff.Kind]; ok {
			counts[i].Count++
		}
	}
	return counts
}

// RenderCounts writes one "kind: count" line per entry
func RenderCounts(w io.Writer, counts []KindCount) error {
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%-20s %d\n", c.Kind, c.Count); err != nil {
			return err
		}
	}
	return nil
}
