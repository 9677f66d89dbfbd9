package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/campuskit/lostfound/internal/domain"
)

// AnnouncementRepository defines storage for announcements.
type AnnouncementRepository interface {
	List(ctx context.Context, status domain.AnnouncementStatus) ([]domain.Announcement, error)
	Get(ctx context.Context, id int64) (domain.Announcement, error)
	Create(ctx context.Context, a domain.Announcement) (int64, error)
	Update(ctx context.Context, a domain.Announcement, expectedVersion int64) (domain.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type AnnouncementUsecase struct {
	repo AnnouncementRepository
	now  func() time.Time
}

func NewAnnouncementUsecase(repo AnnouncementRepository) *AnnouncementUsecase {
	return &AnnouncementUsecase{repo: repo, now: time.Now}
}

// Published lists live announcements, newest first.
func (uc *AnnouncementUsecase) Published(ctx context.Context) ([]domain.Announcement, error) {
	return uc.list(ctx, domain.AnnouncementPublished)
}

// ReviewList lists announcements awaiting moderation, newest first.
func (uc *AnnouncementUsecase) ReviewList(ctx context.Context) ([]domain.Announcement, error) {
	return uc.list(ctx, domain.AnnouncementPending)
}

func (uc *AnnouncementUsecase) list(ctx context.Context, status domain.AnnouncementStatus) ([]domain.Announcement, error) {
	announcements, err := uc.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
	return announcements, nil
}

// Publish submits a new announcement into moderation.
func (uc *AnnouncementUsecase) Publish(ctx context.Context, a domain.Announcement) (int64, error) {
	if err := domain.ValidateAnnouncement(a); err != nil {
		return 0, err
	}
	a.Status = domain.AnnouncementPending
	a.CreatedAt = uc.now()
	return uc.repo.Create(ctx, a)
}

// Resolve applies a moderation decision to a pending announcement.
func (uc *AnnouncementUsecase) Resolve(ctx context.Context, id int64, approve bool) (domain.Announcement, error) {
	a, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Announcement{}, err
	}

	next, err := domain.ResolveAnnouncement(a, approve)
	if err != nil {
		return domain.Announcement{}, err
	}

	return uc.repo.Update(ctx, next, a.Version)
}

// Delete removes an announcement.
func (uc *AnnouncementUsecase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}
