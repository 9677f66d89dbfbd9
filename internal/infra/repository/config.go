package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/infra/database/models"
)

// configRowID pins the configuration to a single row.
const configRowID = 1

type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Load reads the configuration row, seeding the defaults on first use.
func (r *ConfigRepository) Load(ctx context.Context) (domain.SystemConfig, error) {
	var m models.SystemConfig
	err := r.db.WithContext(ctx).First(&m, "id = ?", configRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.seed(ctx)
		}
		return domain.SystemConfig{}, err
	}
	return configToDomain(m), nil
}

func (r *ConfigRepository) Save(ctx context.Context, cfg domain.SystemConfig, expectedVersion int64) (domain.SystemConfig, error) {
	m := configToModel(cfg)
	m.Version = expectedVersion + 1

	result := r.db.WithContext(ctx).
		Model(&models.SystemConfig{}).
		Where("id = ? AND version = ?", configRowID, expectedVersion).
		Select("item_types", "feedback_types", "claim_validity_days", "publish_limit", "version").
		Updates(&m)
	if result.Error != nil {
		return domain.SystemConfig{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.SystemConfig{}, domain.ConflictError{Resource: "config"}
	}

	cfg.Version = m.Version
	return cfg, nil
}

func (r *ConfigRepository) seed(ctx context.Context) (domain.SystemConfig, error) {
	cfg := domain.DefaultConfig()
	m := configToModel(cfg)

	// A concurrent seed loses silently and rereads the winner's row.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
	if err != nil {
		return domain.SystemConfig{}, err
	}

	var stored models.SystemConfig
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", configRowID).Error; err != nil {
		return domain.SystemConfig{}, err
	}
	return configToDomain(stored), nil
}

func configToModel(cfg domain.SystemConfig) models.SystemConfig {
	return models.SystemConfig{
		ID:                configRowID,
		ItemTypes:         cfg.ItemTypes,
		FeedbackTypes:     cfg.FeedbackTypes,
		ClaimValidityDays: cfg.ClaimValidityDays,
		PublishLimit:      cfg.PublishLimit,
		Version:           cfg.Version,
	}
}

func configToDomain(m models.SystemConfig) domain.SystemConfig {
	return domain.SystemConfig{
		ItemTypes:         m.ItemTypes,
		FeedbackTypes:     m.FeedbackTypes,
		ClaimValidityDays: m.ClaimValidityDays,
		PublishLimit:      m.PublishLimit,
		Version:           m.Version,
	}
}
