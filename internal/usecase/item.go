package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/campuskit/lostfound/internal/domain"
)

// ItemRepository defines storage for managed items. Update must apply the
// write only when the stored version equals expectedVersion, bumping the
// version on success and reporting domain.ConflictError otherwise.
type ItemRepository interface {
	Get(ctx context.Context, id string) (domain.ManagedItem, error)
	List(ctx context.Context, kind domain.Kind) ([]domain.ManagedItem, error)
	Update(ctx context.Context, item domain.ManagedItem, expectedVersion int64) (domain.ManagedItem, error)
}

// ItemDetail decorates an item with the archive guidance the display layer
// renders.
type ItemDetail struct {
	domain.ManagedItem
	ArchiveEligible bool   `json:"archiveEligible"`
	ArchiveGuard    string `json:"archiveGuard,omitempty"`
}

type ItemUsecase struct {
	repo   ItemRepository
	config ConfigSource
	signal Notifier
	now    func() time.Time
}

func NewItemUsecase(repo ItemRepository, config ConfigSource, signal Notifier) *ItemUsecase {
	return &ItemUsecase{
		repo:   repo,
		config: config,
		signal: signal,
		now:    time.Now,
	}
}

// List returns managed items of one kind, most recently approved first,
// each decorated with archive guidance.
func (uc *ItemUsecase) List(ctx context.Context, kind domain.Kind) ([]ItemDetail, error) {
	items, err := uc.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ApprovedAt.After(items[j].ApprovedAt)
	})

	window, err := uc.claimWindow(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	details := make([]ItemDetail, 0, len(items))
	for _, item := range items {
		details = append(details, uc.decorate(item, now, window))
	}
	return details, nil
}

// Get returns one item with archive guidance.
func (uc *ItemUsecase) Get(ctx context.Context, id string) (ItemDetail, error) {
	item, err := uc.repo.Get(ctx, id)
	if err != nil {
		return ItemDetail{}, err
	}
	window, err := uc.claimWindow(ctx)
	if err != nil {
		return ItemDetail{}, err
	}
	return uc.decorate(item, uc.now(), window), nil
}

// MarkClaimed transitions an unmatched item to matched. The caller supplies
// the version it read; a stale version fails with domain.ConflictError.
func (uc *ItemUsecase) MarkClaimed(ctx context.Context, id string, version int64) (domain.ManagedItem, error) {
	item, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.ManagedItem{}, err
	}
	if item.Version != version {
		return domain.ManagedItem{}, domain.ConflictError{Resource: "item"}
	}

	next, err := domain.MarkClaimed(item)
	if err != nil {
		return domain.ManagedItem{}, err
	}

	stored, err := uc.repo.Update(ctx, next, version)
	if err != nil {
		return domain.ManagedItem{}, err
	}

	uc.notify(ctx, domain.EventItemMatched, id)
	return stored, nil
}

// Archive transitions an eligible item to the terminal archived state.
func (uc *ItemUsecase) Archive(ctx context.Context, id, method string, version int64) (domain.ManagedItem, error) {
	item, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.ManagedItem{}, err
	}
	if item.Version != version {
		return domain.ManagedItem{}, domain.ConflictError{Resource: "item"}
	}

	window, err := uc.claimWindow(ctx)
	if err != nil {
		return domain.ManagedItem{}, err
	}

	next, err := domain.Archive(item, method, uc.now(), window)
	if err != nil {
		return domain.ManagedItem{}, err
	}

	stored, err := uc.repo.Update(ctx, next, version)
	if err != nil {
		return domain.ManagedItem{}, err
	}

	uc.notify(ctx, domain.EventItemArchived, id)
	return stored, nil
}

// UpdateContact maintains the storage location and contact phone of an
// item.
func (uc *ItemUsecase) UpdateContact(ctx context.Context, id, storageLocation, contactPhone string, version int64) (domain.ManagedItem, error) {
	item, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.ManagedItem{}, err
	}
	if item.Version != version {
		return domain.ManagedItem{}, domain.ConflictError{Resource: "item"}
	}

	next, err := domain.UpdateContact(item, storageLocation, contactPhone)
	if err != nil {
		return domain.ManagedItem{}, err
	}

	return uc.repo.Update(ctx, next, version)
}

func (uc *ItemUsecase) claimWindow(ctx context.Context) (int, error) {
	cfg, err := uc.config.Get(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.ClaimValidityDays, nil
}

func (uc *ItemUsecase) decorate(item domain.ManagedItem, now time.Time, window int) ItemDetail {
	return ItemDetail{
		ManagedItem:     item,
		ArchiveEligible: domain.ArchiveEligible(item, now, window),
		ArchiveGuard:    domain.ArchiveGuard(item, now, window),
	}
}

func (uc *ItemUsecase) notify(ctx context.Context, eventType, entityID string) {
	if uc.signal == nil {
		return
	}
	_ = uc.signal.Publish(ctx, domain.Event{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: uc.now(),
	})
}
