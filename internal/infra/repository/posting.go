package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/infra/database/models"
)

type PostingRepository struct {
	db *gorm.DB
}

func NewPostingRepository(db *gorm.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

func (r *PostingRepository) Add(ctx context.Context, p domain.Posting) error {
	return r.db.WithContext(ctx).Create(postingToModel(p)).Error
}

func (r *PostingRepository) GetPending(ctx context.Context, id string) (domain.Posting, error) {
	var m models.Posting
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Posting{}, domain.NotFoundError{Resource: "posting"}
		}
		return domain.Posting{}, err
	}
	return postingToDomain(m), nil
}

func (r *PostingRepository) ListPending(ctx context.Context, kind domain.Kind) ([]domain.Posting, error) {
	var ms []models.Posting
	err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("published_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	postings := make([]domain.Posting, 0, len(ms))
	for _, m := range ms {
		postings = append(postings, postingToDomain(m))
	}
	return postings, nil
}

func (r *PostingRepository) ListHistory(ctx context.Context) ([]domain.ReviewRecord, error) {
	var ms []models.ReviewRecord
	err := r.db.WithContext(ctx).
		Order("reviewed_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.ReviewRecord, 0, len(ms))
	for _, m := range ms {
		records = append(records, recordToDomain(m))
	}
	return records, nil
}

// Conclude removes the posting from the pending set, appends the review
// record and, on approval, creates the managed item, all in one
// transaction.
func (r *PostingRepository) Conclude(ctx context.Context, postingID string, rec domain.ReviewRecord, item *domain.ManagedItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Posting{}, "id = ?", postingID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "posting"}
		}

		if err := tx.Create(recordToModel(rec)).Error; err != nil {
			return err
		}

		if item != nil {
			m := itemToModel(*item)
			m.Version = 1
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func postingToModel(p domain.Posting) *models.Posting {
	return &models.Posting{
		ID:           p.ID,
		Kind:         string(p.Kind),
		ItemType:     p.ItemType,
		ItemName:     p.ItemName,
		Campus:       p.Campus,
		Location:     p.Location,
		EventTime:    p.EventTime,
		Features:     p.Features,
		ContactName:  p.ContactName,
		ContactPhone: p.ContactPhone,
		HasReward:    p.HasReward,
		RewardAmount: p.RewardAmount,
		Photos:       p.Photos,
		PublisherID:  p.PublisherID,
		PublishedAt:  p.PublishedAt,
	}
}

func postingToDomain(m models.Posting) domain.Posting {
	return domain.Posting{
		ID:           m.ID,
		Kind:         domain.Kind(m.Kind),
		ItemType:     m.ItemType,
		ItemName:     m.ItemName,
		Campus:       m.Campus,
		Location:     m.Location,
		EventTime:    m.EventTime,
		Features:     m.Features,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		HasReward:    m.HasReward,
		RewardAmount: m.RewardAmount,
		Photos:       m.Photos,
		PublisherID:  m.PublisherID,
		PublishedAt:  m.PublishedAt,
	}
}

func recordToModel(rec domain.ReviewRecord) *models.ReviewRecord {
	return &models.ReviewRecord{
		PostingID:    rec.Posting.ID,
		Posting:      *postingToModel(rec.Posting),
		Result:       string(rec.Result),
		Reviewer:     rec.Reviewer,
		ReviewedAt:   rec.ReviewedAt,
		RejectReason: rec.RejectReason,
	}
}

func recordToDomain(m models.ReviewRecord) domain.ReviewRecord {
	return domain.ReviewRecord{
		Posting:      postingToDomain(m.Posting),
		Result:       domain.ReviewResult(m.Result),
		Reviewer:     m.Reviewer,
		ReviewedAt:   m.ReviewedAt,
		RejectReason: m.RejectReason,
	}
}
