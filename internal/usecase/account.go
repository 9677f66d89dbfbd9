package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/lostfound/internal/domain"
)

// AccountQuery narrows and pages the account list.
type AccountQuery struct {
	Username *int64
	UserType domain.UserType
	Page     int
	PageSize int
}

// AccountPage is a paged slice of the account list.
type AccountPage struct {
	List     []domain.Account `json:"list"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}

// AccountRepository defines storage for console accounts.
type AccountRepository interface {
	List(ctx context.Context, query AccountQuery) ([]domain.Account, int64, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	Create(ctx context.Context, account domain.Account, passwordHash string) (int64, error)
	Update(ctx context.Context, account domain.Account, expectedVersion int64) (domain.Account, error)
	SetPassword(ctx context.Context, id int64, passwordHash string) error
}

// CreateAccountInput carries the fields of a new account. When Password is
// empty the tail of the id card number seeds the initial password, which
// the user must change at first login.
type CreateAccountInput struct {
	Username int64
	Name     string
	IDCard   string
	UserType domain.UserType
	Campus   string
	Password string
}

// UpdateAccountInput carries a partial account update.
type UpdateAccountInput struct {
	Campus        *string
	UserType      *domain.UserType
	ResetPassword bool
	Version       int64
}

type AccountUsecase struct {
	repo AccountRepository
	now  func() time.Time
}

func NewAccountUsecase(repo AccountRepository) *AccountUsecase {
	return &AccountUsecase{repo: repo, now: time.Now}
}

func (uc *AccountUsecase) List(ctx context.Context, query AccountQuery) (AccountPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}
	accounts, total, err := uc.repo.List(ctx, query)
	if err != nil {
		return AccountPage{}, err
	}
	return AccountPage{
		List:     accounts,
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
	}, nil
}

func (uc *AccountUsecase) Create(ctx context.Context, input CreateAccountInput) (int64, error) {
	account := domain.Account{
		Username:   input.Username,
		Name:       input.Name,
		UserType:   input.UserType,
		Campus:     input.Campus,
		FirstLogin: true,
		CreatedAt:  uc.now(),
	}
	if err := domain.ValidateAccount(account); err != nil {
		return 0, err
	}

	password := input.Password
	if password == "" {
		password = initialPassword(input.IDCard)
	}
	if password == "" {
		return 0, domain.ValidationError{Field: "id_card", Reason: "required when no password is given"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return uc.repo.Create(ctx, account, string(hash))
}

// Disable locks the account out until the preset duration elapses.
func (uc *AccountUsecase) Disable(ctx context.Context, id int64, duration domain.DisableDuration) (domain.Account, error) {
	account, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	until, err := duration.Until(uc.now())
	if err != nil {
		return domain.Account{}, err
	}

	account.DisabledUntil = &until
	return uc.repo.Update(ctx, account, account.Version)
}

// Enable lifts an active lockout.
func (uc *AccountUsecase) Enable(ctx context.Context, id int64) (domain.Account, error) {
	account, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	account.DisabledUntil = nil
	return uc.repo.Update(ctx, account, account.Version)
}

func (uc *AccountUsecase) Update(ctx context.Context, id int64, input UpdateAccountInput) (domain.Account, error) {
	account, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if account.Version != input.Version {
		return domain.Account{}, domain.ConflictError{Resource: "account"}
	}

	if input.Campus != nil {
		account.Campus = *input.Campus
	}
	if input.UserType != nil {
		if !input.UserType.Valid() {
			return domain.Account{}, domain.ValidationError{Field: "user_type", Reason: "unknown user type"}
		}
		account.UserType = *input.UserType
	}
	if input.ResetPassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("%d", account.Username)), bcrypt.DefaultCost)
		if err != nil {
			return domain.Account{}, fmt.Errorf("hash password: %w", err)
		}
		if err := uc.repo.SetPassword(ctx, id, string(hash)); err != nil {
			return domain.Account{}, err
		}
		account.FirstLogin = true
	}

	return uc.repo.Update(ctx, account, input.Version)
}

func initialPassword(idCard string) string {
	if len(idCard) < 6 {
		return ""
	}
	return idCard[len(idCard)-6:]
}
