package domain

import (
	"strings"
	"time"
)

// UserType classifies console accounts.
type UserType string

const (
	UserStudent     UserType = "STUDENT"
	UserAdmin       UserType = "ADMIN"
	UserSystemAdmin UserType = "SYSTEM_ADMIN"
)

func (t UserType) Valid() bool {
	return t == UserStudent || t == UserAdmin || t == UserSystemAdmin
}

// Account is a console account record. Username is the campus number used
// to sign in.
type Account struct {
	ID            int64      `json:"id"`
	Username      int64      `json:"username"`
	Name          string     `json:"name"`
	UserType      UserType   `json:"user_type"`
	Campus        string     `json:"campus,omitempty"`
	FirstLogin    bool       `json:"first_login"`
	DisabledUntil *time.Time `json:"disabled_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Version       int64      `json:"version"`
}

// Disabled reports whether the account is currently locked out.
func (a Account) Disabled(now time.Time) bool {
	return a.DisabledUntil != nil && a.DisabledUntil.After(now)
}

// DisableDuration is a preset lockout window.
type DisableDuration string

const (
	Disable7Days   DisableDuration = "7days"
	Disable1Month  DisableDuration = "1month"
	Disable6Months DisableDuration = "6months"
	Disable1Year   DisableDuration = "1year"
)

// Until resolves the duration to an absolute lockout deadline.
func (d DisableDuration) Until(now time.Time) (time.Time, error) {
	switch d {
	case Disable7Days:
		return now.AddDate(0, 0, 7), nil
	case Disable1Month:
		return now.AddDate(0, 1, 0), nil
	case Disable6Months:
		return now.AddDate(0, 6, 0), nil
	case Disable1Year:
		return now.AddDate(1, 0, 0), nil
	}
	return time.Time{}, ValidationError{Field: "duration", Reason: "unknown disable duration"}
}

// ValidateAccount checks a new account record before creation.
func ValidateAccount(a Account) error {
	if a.Username <= 0 {
		return ValidationError{Field: "username", Reason: "required"}
	}
	if strings.TrimSpace(a.Name) == "" {
		return ValidationError{Field: "name", Reason: "required"}
	}
	if !a.UserType.Valid() {
		return ValidationError{Field: "user_type", Reason: "unknown user type"}
	}
	return nil
}
