package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/ident"
)

// PostingRepository defines storage for the pending set and the review
// history. Conclude must append the record, remove the pending posting and,
// when item is non-nil, create the managed item in one atomic step.
type PostingRepository interface {
	Add(ctx context.Context, p domain.Posting) error
	GetPending(ctx context.Context, id string) (domain.Posting, error)
	ListPending(ctx context.Context, kind domain.Kind) ([]domain.Posting, error)
	ListHistory(ctx context.Context) ([]domain.ReviewRecord, error)
	Conclude(ctx context.Context, postingID string, rec domain.ReviewRecord, item *domain.ManagedItem) error
}

// ConfigSource supplies the current system configuration snapshot.
type ConfigSource interface {
	Get(ctx context.Context) (domain.SystemConfig, error)
}

// RateLimiter enforces the per-publisher daily publish limit.
type RateLimiter interface {
	Allow(ctx context.Context, publisher string, limit int, now time.Time) (bool, error)
}

// Notifier publishes state-transition events to the realtime stream.
type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}

type ReviewUsecase struct {
	repo    PostingRepository
	config  ConfigSource
	limiter RateLimiter
	signal  Notifier
	now     func() time.Time
}

func NewReviewUsecase(repo PostingRepository, config ConfigSource, limiter RateLimiter, signal Notifier) *ReviewUsecase {
	return &ReviewUsecase{
		repo:    repo,
		config:  config,
		limiter: limiter,
		signal:  signal,
		now:     time.Now,
	}
}

// Submit accepts a new posting into the pending set, enforcing the daily
// publish limit for the submitting account.
func (uc *ReviewUsecase) Submit(ctx context.Context, p domain.Posting) (domain.Posting, error) {
	if err := domain.ValidatePosting(p); err != nil {
		return domain.Posting{}, err
	}

	now := uc.now()

	if p.PublisherID != "" && uc.limiter != nil {
		cfg, err := uc.config.Get(ctx)
		if err != nil {
			return domain.Posting{}, err
		}
		ok, err := uc.limiter.Allow(ctx, p.PublisherID, cfg.PublishLimit, now)
		if err != nil {
			return domain.Posting{}, err
		}
		if !ok {
			return domain.Posting{}, domain.ValidationError{
				Field:  "publisher",
				Reason: fmt.Sprintf("daily publish limit of %d reached", cfg.PublishLimit),
			}
		}
	}

	p.ID = ident.New([]byte(string(p.Kind)+"/"+p.ItemName+"/"+p.ContactPhone), now)
	p.PublishedAt = now

	if err := uc.repo.Add(ctx, p); err != nil {
		return domain.Posting{}, err
	}
	return p, nil
}

// Pending lists postings awaiting review for one kind, newest first.
func (uc *ReviewUsecase) Pending(ctx context.Context, kind domain.Kind) ([]domain.Posting, error) {
	postings, err := uc.repo.ListPending(ctx, kind)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].PublishedAt.After(postings[j].PublishedAt)
	})
	return postings, nil
}

// History lists review records, most recently reviewed first.
func (uc *ReviewUsecase) History(ctx context.Context) ([]domain.ReviewRecord, error) {
	records, err := uc.repo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ReviewedAt.After(records[j].ReviewedAt)
	})
	return records, nil
}

// Approve concludes a pending posting as approved and promotes it into the
// managed item lifecycle.
func (uc *ReviewUsecase) Approve(ctx context.Context, postingID, reviewer string) (domain.ReviewRecord, error) {
	p, err := uc.repo.GetPending(ctx, postingID)
	if err != nil {
		return domain.ReviewRecord{}, err
	}

	rec := domain.Approve(p, reviewer, uc.now())
	item := domain.Promote(p, rec.ReviewedAt)

	if err := uc.repo.Conclude(ctx, p.ID, rec, &item); err != nil {
		return domain.ReviewRecord{}, err
	}

	uc.notify(ctx, domain.EventReviewApproved, p.ID)
	return rec, nil
}

// Reject concludes a pending posting as rejected with a reason.
func (uc *ReviewUsecase) Reject(ctx context.Context, postingID, reviewer, reason string) (domain.ReviewRecord, error) {
	p, err := uc.repo.GetPending(ctx, postingID)
	if err != nil {
		return domain.ReviewRecord{}, err
	}

	rec, err := domain.Reject(p, reviewer, reason, uc.now())
	if err != nil {
		return domain.ReviewRecord{}, err
	}

	if err := uc.repo.Conclude(ctx, p.ID, rec, nil); err != nil {
		return domain.ReviewRecord{}, err
	}

	uc.notify(ctx, domain.EventReviewRejected, p.ID)
	return rec, nil
}

func (uc *ReviewUsecase) notify(ctx context.Context, eventType, entityID string) {
	if uc.signal == nil {
		return
	}
	// Best effort: a failed notification must not fail the transition.
	_ = uc.signal.Publish(ctx, domain.Event{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: uc.now(),
	})
}
