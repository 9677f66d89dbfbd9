package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Kind distinguishes lost-item reports from found-item notices.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Posting is a submitted lost/found report awaiting moderation. It is
// immutable once reviewed.
type Posting struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	ItemType     string    `json:"itemType"`
	ItemName     string    `json:"itemName"`
	Campus       string    `json:"campus,omitempty"`
	Location     string    `json:"location"`
	EventTime    time.Time `json:"eventTime"`
	Features     string    `json:"features"`
	ContactName  string    `json:"contactName"`
	ContactPhone string    `json:"contactPhone"`
	HasReward    bool      `json:"hasReward"`
	RewardAmount *int      `json:"rewardAmount,omitempty"`
	Photos       []string  `json:"photos"`
	PublisherID  string    `json:"publisherId,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
}

const maxLocationLen = 50

// ValidatePosting checks an intake submission before it enters the pending
// set.
func ValidatePosting(p Posting) error {
	if !p.Kind.Valid() {
		return ValidationError{Field: "kind", Reason: "must be lost or found"}
	}
	if strings.TrimSpace(p.ItemType) == "" {
		return ValidationError{Field: "itemType", Reason: "required"}
	}
	if strings.TrimSpace(p.ItemName) == "" {
		return ValidationError{Field: "itemName", Reason: "required"}
	}
	if strings.TrimSpace(p.Location) == "" {
		return ValidationError{Field: "location", Reason: "required"}
	}
	if utf8.RuneCountInString(p.Location) > maxLocationLen {
		return ValidationError{Field: "location", Reason: "too long"}
	}
	if strings.TrimSpace(p.ContactName) == "" {
		return ValidationError{Field: "contactName", Reason: "required"}
	}
	if err := ValidatePhone(p.ContactPhone); err != nil {
		return err
	}
	if p.HasReward && p.RewardAmount != nil && *p.RewardAmount < 0 {
		return ValidationError{Field: "rewardAmount", Reason: "must not be negative"}
	}
	return nil
}

// ValidatePhone requires the 11-digit mobile format the campus directory
// uses.
func ValidatePhone(phone string) error {
	if len(phone) != 11 {
		return ValidationError{Field: "contactPhone", Reason: "must be 11 digits"}
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return ValidationError{Field: "contactPhone", Reason: "must be 11 digits"}
		}
	}
	return nil
}
