package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/infra/database/models"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) List(ctx context.Context, status domain.AnnouncementStatus) ([]domain.Announcement, error) {
	var ms []models.Announcement
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	announcements := make([]domain.Announcement, 0, len(ms))
	for _, m := range ms {
		announcements = append(announcements, announcementToDomain(m))
	}
	return announcements, nil
}

func (r *AnnouncementRepository) Get(ctx context.Context, id int64) (domain.Announcement, error) {
	var m models.Announcement
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Announcement{}, domain.NotFoundError{Resource: "announcement"}
		}
		return domain.Announcement{}, err
	}
	return announcementToDomain(m), nil
}

func (r *AnnouncementRepository) Create(ctx context.Context, a domain.Announcement) (int64, error) {
	m := models.Announcement{
		Title:       a.Title,
		Content:     a.Content,
		Type:        string(a.Type),
		Campus:      a.Campus,
		Status:      string(a.Status),
		PublisherID: a.PublisherID,
		CreatedAt:   a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, a domain.Announcement, expectedVersion int64) (domain.Announcement, error) {
	m := models.Announcement{
		Title:   a.Title,
		Content: a.Content,
		Status:  string(a.Status),
		Campus:  a.Campus,
		Version: expectedVersion + 1,
	}

	result := r.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("id = ? AND version = ?", a.ID, expectedVersion).
		Select("title", "content", "status", "campus", "version").
		Updates(&m)
	if result.Error != nil {
		return domain.Announcement{}, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Announcement{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
			return domain.Announcement{}, err
		}
		if count == 0 {
			return domain.Announcement{}, domain.NotFoundError{Resource: "announcement"}
		}
		return domain.Announcement{}, domain.ConflictError{Resource: "announcement"}
	}

	a.Version = expectedVersion + 1
	return a, nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Announcement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "announcement"}
	}
	return nil
}

func announcementToDomain(m models.Announcement) domain.Announcement {
	return domain.Announcement{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		Type:        domain.AnnouncementType(m.Type),
		Campus:      m.Campus,
		Status:      domain.AnnouncementStatus(m.Status),
		PublisherID: m.PublisherID,
		CreatedAt:   m.CreatedAt,
		Version:     m.Version,
	}
}
