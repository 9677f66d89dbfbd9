package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/campuskit/lostfound/internal/domain"
)

// StatsFilter narrows the item population before aggregation. Zero fields
// match everything.
type StatsFilter struct {
	Kind     domain.Kind
	Campus   string
	ItemType string
	From     time.Time
	To       time.Time
}

// Key produces a stable cache key for the filter and dimension.
func (f StatsFilter) Key(dimension domain.StatsDimension) string {
	parts := []string{
		"stats", string(dimension), string(f.Kind), f.Campus, f.ItemType,
	}
	if !f.From.IsZero() {
		parts = append(parts, strconv.FormatInt(f.From.Unix(), 10))
	}
	if !f.To.IsZero() {
		parts = append(parts, strconv.FormatInt(f.To.Unix(), 10))
	}
	return strings.Join(parts, ":")
}

// ItemLister supplies the full managed item population for projection.
type ItemLister interface {
	ListAll(ctx context.Context) ([]domain.ManagedItem, error)
}

// ProjectionCache holds recently computed statistics rows.
type ProjectionCache interface {
	Get(key string) ([]domain.StatsRow, bool)
	Set(key string, rows []domain.StatsRow)
}

type StatsUsecase struct {
	items ItemLister
	cache ProjectionCache
}

func NewStatsUsecase(items ItemLister, cache ProjectionCache) *StatsUsecase {
	return &StatsUsecase{items: items, cache: cache}
}

// Rows aggregates the filtered item population along the given dimension.
func (uc *StatsUsecase) Rows(ctx context.Context, dimension domain.StatsDimension, filter StatsFilter) ([]domain.StatsRow, error) {
	if !dimension.Valid() {
		return nil, domain.ValidationError{Field: "dimension", Reason: "must be status or type"}
	}

	key := filter.Key(dimension)
	if uc.cache != nil {
		if rows, found := uc.cache.Get(key); found {
			return rows, nil
		}
	}

	items, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := domain.Aggregate(filterItems(items, filter), dimension)
	if uc.cache != nil {
		uc.cache.Set(key, rows)
	}
	return rows, nil
}

var csvHeader = []string{"dimension", "total", "unmatched", "matched", "claimed", "claim_rate"}

// ExportCSV renders the rows as a UTF-8 CSV with a BOM, matching what the
// console download produced.
func (uc *StatsUsecase) ExportCSV(ctx context.Context, dimension domain.StatsDimension, filter StatsFilter) ([]byte, error) {
	rows, err := uc.Rows(ctx, dimension, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	buf.WriteString(strings.Join(csvHeader, ","))
	buf.WriteByte('\n')
	for _, row := range rows {
		fmt.Fprintf(&buf, "%s,%d,%d,%d,%d,%s\n",
			row.Dimension, row.TotalCount, row.UnmatchedCount,
			row.MatchedCount, row.ClaimedCount, row.ClaimRate)
	}
	return buf.Bytes(), nil
}

func filterItems(items []domain.ManagedItem, filter StatsFilter) []domain.ManagedItem {
	out := make([]domain.ManagedItem, 0, len(items))
	for _, item := range items {
		if filter.Kind != "" && item.Kind != filter.Kind {
			continue
		}
		if filter.Campus != "" && item.Campus != filter.Campus {
			continue
		}
		if filter.ItemType != "" && item.ItemType != filter.ItemType {
			continue
		}
		if !filter.From.IsZero() && item.EventTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && item.EventTime.After(filter.To) {
			continue
		}
		out = append(out, item)
	}
	return out
}
