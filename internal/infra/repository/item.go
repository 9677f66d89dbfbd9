package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/infra/database/models"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Get(ctx context.Context, id string) (domain.ManagedItem, error) {
	var m models.Item
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ManagedItem{}, domain.NotFoundError{Resource: "item"}
		}
		return domain.ManagedItem{}, err
	}
	return itemToDomain(m), nil
}

func (r *ItemRepository) List(ctx context.Context, kind domain.Kind) ([]domain.ManagedItem, error) {
	var ms []models.Item
	err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("approved_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return itemsToDomain(ms), nil
}

func (r *ItemRepository) ListAll(ctx context.Context) ([]domain.ManagedItem, error) {
	var ms []models.Item
	err := r.db.WithContext(ctx).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return itemsToDomain(ms), nil
}

// Update writes the item only when the stored row still carries
// expectedVersion, bumping the version with the write. A stale version
// surfaces as domain.ConflictError.
func (r *ItemRepository) Update(ctx context.Context, item domain.ManagedItem, expectedVersion int64) (domain.ManagedItem, error) {
	m := itemToModel(item)
	m.Version = expectedVersion + 1

	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND version = ?", item.ID, expectedVersion).
		Select("status", "storage_location", "contact_phone", "claim_count", "archive_method", "version").
		Updates(&m)
	if result.Error != nil {
		return domain.ManagedItem{}, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the item vanished or someone else won the write.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
			return domain.ManagedItem{}, err
		}
		if count == 0 {
			return domain.ManagedItem{}, domain.NotFoundError{Resource: "item"}
		}
		return domain.ManagedItem{}, domain.ConflictError{Resource: "item"}
	}

	item.Version = m.Version
	return item, nil
}

func itemsToDomain(ms []models.Item) []domain.ManagedItem {
	items := make([]domain.ManagedItem, 0, len(ms))
	for _, m := range ms {
		items = append(items, itemToDomain(m))
	}
	return items
}

func itemToModel(item domain.ManagedItem) models.Item {
	return models.Item{
		ID:              item.ID,
		Kind:            string(item.Kind),
		Status:          string(item.Status),
		ItemType:        item.ItemType,
		ItemName:        item.ItemName,
		Campus:          item.Campus,
		Location:        item.Location,
		EventTime:       item.EventTime,
		Features:        item.Features,
		StorageLocation: item.StorageLocation,
		ContactName:     item.ContactName,
		ContactPhone:    item.ContactPhone,
		HasReward:       item.HasReward,
		RewardAmount:    item.RewardAmount,
		Photos:          item.Photos,
		ApprovedAt:      item.ApprovedAt,
		ClaimCount:      item.ClaimCount,
		ArchiveMethod:   item.ArchiveMethod,
		Version:         item.Version,
	}
}

func itemToDomain(m models.Item) domain.ManagedItem {
	return domain.ManagedItem{
		ID:              m.ID,
		Kind:            domain.Kind(m.Kind),
		Status:          domain.ItemStatus(m.Status),
		ItemType:        m.ItemType,
		ItemName:        m.ItemName,
		Campus:          m.Campus,
		Location:        m.Location,
		EventTime:       m.EventTime,
		Features:        m.Features,
		StorageLocation: m.StorageLocation,
		ContactName:     m.ContactName,
		ContactPhone:    m.ContactPhone,
		HasReward:       m.HasReward,
		RewardAmount:    m.RewardAmount,
		Photos:          m.Photos,
		ApprovedAt:      m.ApprovedAt,
		ClaimCount:      m.ClaimCount,
		ArchiveMethod:   m.ArchiveMethod,
		Version:         m.Version,
	}
}
