package domain

import (
	"testing"
	"time"
)

func statsFixture() []ManagedItem {
	now := time.Now()
	return []ManagedItem{
		{ID: "1", Status: StatusUnmatched, ItemType: "证件", ApprovedAt: now},
		{ID: "2", Status: StatusMatched, ItemType: "电子", ClaimCount: 1, ApprovedAt: now},
		{ID: "3", Status: StatusUnmatched, ItemType: "证件", ApprovedAt: now},
		{ID: "4", Status: StatusArchived, ItemType: "电子", ApprovedAt: now},
		{ID: "5", Status: StatusMatched, ItemType: "衣包", ClaimCount: 2, ApprovedAt: now},
	}
}

func TestAggregateByType(t *testing.T) {
	rows := Aggregate(statsFixture(), DimensionType)

	if rows[0].Dimension != TotalDimension {
		t.Fatalf("first row must be the total row, got %q", rows[0].Dimension)
	}
	if rows[0].TotalCount != 5 {
		t.Fatalf("expected total 5, got %d", rows[0].TotalCount)
	}

	// Insertion order of first occurrence.
	want := []string{"证件", "电子", "衣包"}
	for i, dim := range want {
		if rows[i+1].Dimension != dim {
			t.Fatalf("expected group %q at position %d, got %q", dim, i+1, rows[i+1].Dimension)
		}
	}

	sum := 0
	for _, row := range rows[1:] {
		sum += row.TotalCount
	}
	if sum != rows[0].TotalCount {
		t.Fatalf("group totals %d do not reconcile with total row %d", sum, rows[0].TotalCount)
	}
}

func TestAggregateByStatus(t *testing.T) {
	rows := Aggregate(statsFixture(), DimensionStatus)

	if rows[0].UnmatchedCount != 2 || rows[0].MatchedCount != 2 {
		t.Fatalf("unexpected total counts: %+v", rows[0])
	}
	if rows[0].ClaimedCount != 2 {
		t.Fatalf("expected 2 claimed items, got %d", rows[0].ClaimedCount)
	}
	if rows[0].ClaimRate != "40.0%" {
		t.Fatalf("expected claim rate 40.0%%, got %s", rows[0].ClaimRate)
	}
}

func TestAggregateEmpty(t *testing.T) {
	rows := Aggregate(nil, DimensionType)

	if len(rows) != 1 {
		t.Fatalf("expected only the total row, got %d rows", len(rows))
	}
	if rows[0].TotalCount != 0 || rows[0].ClaimRate != "0.0%" {
		t.Fatalf("empty aggregate must be a zero row, got %+v", rows[0])
	}
}
