package domain

import "fmt"

// StatsDimension selects the grouping key for aggregation.
type StatsDimension string

const (
	DimensionStatus StatsDimension = "status"
	DimensionType   StatsDimension = "type"
)

func (d StatsDimension) Valid() bool {
	return d == DimensionStatus || d == DimensionType
}

// TotalDimension labels the synthetic row summing across all groups.
const TotalDimension = "total"

// StatsRow is one row of the read-side statistics projection.
type StatsRow struct {
	Dimension      string `json:"dimension"`
	TotalCount     int    `json:"totalCount"`
	UnmatchedCount int    `json:"unmatchedCount"`
	MatchedCount   int    `json:"matchedCount"`
	ClaimedCount   int    `json:"claimedCount"`
	ClaimRate      string `json:"claimRate"`
}

// Aggregate groups items by the chosen dimension and derives per-group
// counts plus a claim rate. Group order follows first occurrence in the
// input; the synthetic total row always comes first. An empty input yields
// a single zero total row.
func Aggregate(items []ManagedItem, dimension StatsDimension) []StatsRow {
	groups := map[string]*StatsRow{}
	order := []string{}
	total := StatsRow{Dimension: TotalDimension}

	for _, item := range items {
		key := string(item.Status)
		if dimension == DimensionType {
			key = item.ItemType
		}
		row, ok := groups[key]
		if !ok {
			row = &StatsRow{Dimension: key}
			groups[key] = row
			order = append(order, key)
		}
		tally(row, item)
		tally(&total, item)
	}

	rows := make([]StatsRow, 0, len(order)+1)
	total.ClaimRate = claimRate(total.ClaimedCount, total.TotalCount)
	rows = append(rows, total)
	for _, key := range order {
		row := groups[key]
		row.ClaimRate = claimRate(row.ClaimedCount, row.TotalCount)
		rows = append(rows, *row)
	}
	return rows
}

func tally(row *StatsRow, item ManagedItem) {
	row.TotalCount++
	switch item.Status {
	case StatusUnmatched:
		row.UnmatchedCount++
	case StatusMatched:
		row.MatchedCount++
	}
	if item.ClaimCount > 0 {
		row.ClaimedCount++
	}
}

func claimRate(claimed, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(claimed)/float64(total)*100)
}
