package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/infra/database/models"
	"github.com/campuskit/lostfound/internal/usecase"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) List(ctx context.Context, query usecase.AccountQuery) ([]domain.Account, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Account{})
	if query.Username != nil {
		q = q.Where("username = ?", *query.Username)
	}
	if query.UserType != "" {
		q = q.Where("user_type = ?", string(query.UserType))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Account
	err := q.Order("created_at DESC").
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	accounts := make([]domain.Account, 0, len(ms))
	for _, m := range ms {
		accounts = append(accounts, accountToDomain(m))
	}
	return accounts, total, nil
}

func (r *AccountRepository) Get(ctx context.Context, id int64) (domain.Account, error) {
	var m models.Account
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.NotFoundError{Resource: "account"}
		}
		return domain.Account{}, err
	}
	return accountToDomain(m), nil
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account, passwordHash string) (int64, error) {
	m := models.Account{
		Username:      account.Username,
		Name:          account.Name,
		UserType:      string(account.UserType),
		Campus:        account.Campus,
		PasswordHash:  passwordHash,
		FirstLogin:    account.FirstLogin,
		DisabledUntil: account.DisabledUntil,
		CreatedAt:     account.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, domain.ConflictError{Resource: "account"}
		}
		return 0, err
	}
	return m.ID, nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account, expectedVersion int64) (domain.Account, error) {
	m := models.Account{
		UserType:      string(account.UserType),
		Campus:        account.Campus,
		FirstLogin:    account.FirstLogin,
		DisabledUntil: account.DisabledUntil,
		Version:       expectedVersion + 1,
	}

	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND version = ?", account.ID, expectedVersion).
		Select("user_type", "campus", "first_login", "disabled_until", "version").
		Updates(&m)
	if result.Error != nil {
		return domain.Account{}, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", account.ID).Count(&count).Error; err != nil {
			return domain.Account{}, err
		}
		if count == 0 {
			return domain.Account{}, domain.NotFoundError{Resource: "account"}
		}
		return domain.Account{}, domain.ConflictError{Resource: "account"}
	}

	account.Version = expectedVersion + 1
	return account, nil
}

func (r *AccountRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "account"}
	}
	return nil
}

func accountToDomain(m models.Account) domain.Account {
	return domain.Account{
		ID:            m.ID,
		Username:      m.Username,
		Name:          m.Name,
		UserType:      domain.UserType(m.UserType),
		Campus:        m.Campus,
		FirstLogin:    m.FirstLogin,
		DisabledUntil: m.DisabledUntil,
		CreatedAt:     m.CreatedAt,
		Version:       m.Version,
	}
}
