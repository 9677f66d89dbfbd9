package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuskit/lostfound/internal/domain"
)

type mockAnnouncementRepo struct {
	announcements map[int64]domain.Announcement
	nextID        int64
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{announcements: map[int64]domain.Announcement{}, nextID: 1}
}

func (m *mockAnnouncementRepo) List(ctx context.Context, status domain.AnnouncementStatus) ([]domain.Announcement, error) {
	var out []domain.Announcement
	for _, a := range m.announcements {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAnnouncementRepo) Get(ctx context.Context, id int64) (domain.Announcement, error) {
	a, ok := m.announcements[id]
	if !ok {
		return domain.Announcement{}, domain.NotFoundError{Resource: "announcement"}
	}
	return a, nil
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, a domain.Announcement) (int64, error) {
	id := m.nextID
	m.nextID++
	a.ID = id
	m.announcements[id] = a
	return id, nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, a domain.Announcement, expectedVersion int64) (domain.Announcement, error) {
	stored, ok := m.announcements[a.ID]
	if !ok {
		return domain.Announcement{}, domain.NotFoundError{Resource: "announcement"}
	}
	if stored.Version != expectedVersion {
		return domain.Announcement{}, domain.ConflictError{Resource: "announcement"}
	}
	a.Version = expectedVersion + 1
	m.announcements[a.ID] = a
	return a, nil
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id int64) error {
	delete(m.announcements, id)
	return nil
}

func TestAnnouncementPublishEntersReview(t *testing.T) {
	repo := newMockAnnouncementRepo()
	uc := NewAnnouncementUsecase(repo)

	id, err := uc.Publish(context.Background(), domain.Announcement{
		Title:   "失物招领处搬迁",
		Content: "即日起失物招领处迁至行政楼一层。",
		Type:    domain.AnnouncementSystem,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if repo.announcements[id].Status != domain.AnnouncementPending {
		t.Fatalf("expected pending status, got %s", repo.announcements[id].Status)
	}
}

func TestAnnouncementRegionRequiresCampus(t *testing.T) {
	uc := NewAnnouncementUsecase(newMockAnnouncementRepo())

	_, err := uc.Publish(context.Background(), domain.Announcement{
		Title:   "东区通知",
		Content: "内容",
		Type:    domain.AnnouncementRegion,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnnouncementResolve(t *testing.T) {
	repo := newMockAnnouncementRepo()
	uc := NewAnnouncementUsecase(repo)

	id, err := uc.Publish(context.Background(), domain.Announcement{
		Title:   "通知",
		Content: "内容",
		Type:    domain.AnnouncementSystem,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	a, err := uc.Resolve(context.Background(), id, true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if a.Status != domain.AnnouncementPublished {
		t.Fatalf("expected published, got %s", a.Status)
	}

	// A second decision on the same announcement is rejected.
	if _, err := uc.Resolve(context.Background(), id, false); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestAnnouncementPublishedNewestFirst(t *testing.T) {
	repo := newMockAnnouncementRepo()
	uc := NewAnnouncementUsecase(repo)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		repo.announcements[int64(i+1)] = domain.Announcement{
			ID:        int64(i + 1),
			Title:     "通知",
			Content:   "内容",
			Type:      domain.AnnouncementSystem,
			Status:    domain.AnnouncementPublished,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	repo.nextID = 4

	announcements, err := uc.Published(context.Background())
	if err != nil {
		t.Fatalf("published failed: %v", err)
	}
	if len(announcements) != 3 {
		t.Fatalf("expected 3 announcements, got %d", len(announcements))
	}
	if announcements[0].ID != 3 {
		t.Fatalf("expected newest first, got id %d", announcements[0].ID)
	}
}
