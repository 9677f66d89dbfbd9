package usecase

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/campuskit/lostfound/internal/domain"
)

// ConfigRepository defines storage for the single system configuration row.
// Save must apply the write only when the stored version equals
// expectedVersion.
type ConfigRepository interface {
	Load(ctx context.Context) (domain.SystemConfig, error)
	Save(ctx context.Context, cfg domain.SystemConfig, expectedVersion int64) (domain.SystemConfig, error)
}

const configCacheKey = "system-config"

type ConfigUsecase struct {
	repo   ConfigRepository
	cache  *gocache.Cache
	signal Notifier
	now    func() time.Time
}

func NewConfigUsecase(repo ConfigRepository, signal Notifier) *ConfigUsecase {
	return &ConfigUsecase{
		repo:   repo,
		cache:  gocache.New(time.Minute, 5*time.Minute),
		signal: signal,
		now:    time.Now,
	}
}

// Get returns the current configuration snapshot, served from the
// in-process cache between mutations.
func (uc *ConfigUsecase) Get(ctx context.Context) (domain.SystemConfig, error) {
	if cached, found := uc.cache.Get(configCacheKey); found {
		return cached.(domain.SystemConfig), nil
	}
	cfg, err := uc.repo.Load(ctx)
	if err != nil {
		return domain.SystemConfig{}, err
	}
	uc.cache.SetDefault(configCacheKey, cfg)
	return cfg, nil
}

// AddItemType appends a new item type to the taxonomy. Duplicates are a
// no-op and do not advance the version.
func (uc *ConfigUsecase) AddItemType(ctx context.Context, candidate string) (domain.SystemConfig, error) {
	return uc.mutate(ctx, func(cfg domain.SystemConfig) (domain.SystemConfig, error) {
		return domain.AddItemType(cfg, candidate)
	})
}

// AddFeedbackType appends a new feedback type to the taxonomy.
func (uc *ConfigUsecase) AddFeedbackType(ctx context.Context, candidate string) (domain.SystemConfig, error) {
	return uc.mutate(ctx, func(cfg domain.SystemConfig) (domain.SystemConfig, error) {
		return domain.AddFeedbackType(cfg, candidate)
	})
}

// SetClaimValidityDays replaces the claim window.
func (uc *ConfigUsecase) SetClaimValidityDays(ctx context.Context, value int) (domain.SystemConfig, error) {
	return uc.mutate(ctx, func(cfg domain.SystemConfig) (domain.SystemConfig, error) {
		return domain.SetClaimValidityDays(cfg, value)
	})
}

// SetPublishLimit replaces the per-day publish limit.
func (uc *ConfigUsecase) SetPublishLimit(ctx context.Context, value int) (domain.SystemConfig, error) {
	return uc.mutate(ctx, func(cfg domain.SystemConfig) (domain.SystemConfig, error) {
		return domain.SetPublishLimit(cfg, value)
	})
}

func (uc *ConfigUsecase) mutate(ctx context.Context, apply func(domain.SystemConfig) (domain.SystemConfig, error)) (domain.SystemConfig, error) {
	current, err := uc.repo.Load(ctx)
	if err != nil {
		return domain.SystemConfig{}, err
	}

	next, err := apply(current)
	if err != nil {
		return domain.SystemConfig{}, err
	}

	// Duplicate taxonomy adds leave the config untouched; skip the write so
	// the version does not advance.
	if unchanged(current, next) {
		return current, nil
	}

	stored, err := uc.repo.Save(ctx, next, current.Version)
	if err != nil {
		return domain.SystemConfig{}, err
	}

	uc.cache.Delete(configCacheKey)
	if uc.signal != nil {
		_ = uc.signal.Publish(ctx, domain.Event{
			Type:       domain.EventConfigUpdated,
			OccurredAt: uc.now(),
		})
	}
	return stored, nil
}

func unchanged(a, b domain.SystemConfig) bool {
	if a.ClaimValidityDays != b.ClaimValidityDays || a.PublishLimit != b.PublishLimit {
		return false
	}
	if len(a.ItemTypes) != len(b.ItemTypes) || len(a.FeedbackTypes) != len(b.FeedbackTypes) {
		return false
	}
	for i := range a.ItemTypes {
		if a.ItemTypes[i] != b.ItemTypes[i] {
			return false
		}
	}
	for i := range a.FeedbackTypes {
		if a.FeedbackTypes[i] != b.FeedbackTypes[i] {
			return false
		}
	}
	return true
}
