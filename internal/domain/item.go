package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ItemStatus is the lifecycle state of an approved item.
type ItemStatus string

const (
	StatusUnmatched ItemStatus = "unmatched"
	StatusMatched   ItemStatus = "matched"
	StatusArchived  ItemStatus = "archived"
)

// ManagedItem is an approved posting tracked through its resolution
// lifecycle. ArchiveMethod is present if and only if Status is
// StatusArchived. ClaimCount only ever increases.
type ManagedItem struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	Status          ItemStatus `json:"status"`
	ItemType        string     `json:"itemType"`
	ItemName        string     `json:"itemName"`
	Campus          string     `json:"campus,omitempty"`
	Location        string     `json:"location"`
	EventTime       time.Time  `json:"eventTime"`
	Features        string     `json:"features"`
	StorageLocation string     `json:"storageLocation,omitempty"`
	ContactName     string     `json:"contactName"`
	ContactPhone    string     `json:"contactPhone"`
	HasReward       bool       `json:"hasReward"`
	RewardAmount    *int       `json:"rewardAmount,omitempty"`
	Photos          []string   `json:"photos"`
	ApprovedAt      time.Time  `json:"approvedAt"`
	ClaimCount      int        `json:"claimCount"`
	ArchiveMethod   *string    `json:"archiveMethod,omitempty"`
	Version         int64      `json:"version"`
}

const (
	maxArchiveMethodLen   = 100
	maxStorageLocationLen = 30
)

// MarkClaimed transitions an unmatched item to matched, recording one claim.
// A second call on a matched item is rejected, not silently ignored.
func MarkClaimed(item ManagedItem) (ManagedItem, error) {
	if item.Status != StatusUnmatched {
		return item, InvalidStateError{Reason: fmt.Sprintf("cannot claim %s item", item.Status)}
	}
	item.Status = StatusMatched
	item.ClaimCount++
	return item, nil
}

// ArchiveEligible reports whether an item qualifies for archival: still
// unmatched, never claimed, and aged past the claim window.
func ArchiveEligible(item ManagedItem, now time.Time, claimWindowDays int) bool {
	return item.Status == StatusUnmatched &&
		item.ClaimCount == 0 &&
		ElapsedDays(now, item.ApprovedAt) >= claimWindowDays
}

// Archive transitions an eligible item to the terminal archived state. The
// method is trimmed and must be non-empty and at most 100 characters.
func Archive(item ManagedItem, method string, now time.Time, claimWindowDays int) (ManagedItem, error) {
	if !ArchiveEligible(item, now, claimWindowDays) {
		return item, InvalidStateError{Reason: ArchiveGuard(item, now, claimWindowDays)}
	}
	trimmed := strings.TrimSpace(method)
	if trimmed == "" {
		return item, ValidationError{Field: "archiveMethod", Reason: "required"}
	}
	if utf8.RuneCountInString(trimmed) > maxArchiveMethodLen {
		return item, ValidationError{Field: "archiveMethod", Reason: "too long"}
	}
	item.Status = StatusArchived
	item.ArchiveMethod = &trimmed
	return item, nil
}

// ArchiveGuard derives the display-layer explanation for why an item cannot
// be archived yet. Empty string means eligible.
func ArchiveGuard(item ManagedItem, now time.Time, claimWindowDays int) string {
	if item.Status == StatusArchived {
		return "already archived"
	}
	if item.Status == StatusMatched || item.ClaimCount > 0 {
		return "has claim record, cannot archive"
	}
	remaining := claimWindowDays - ElapsedDays(now, item.ApprovedAt)
	if remaining > 0 {
		if remaining == 1 {
			return "needs 1 more day"
		}
		return fmt.Sprintf("needs %d more days", remaining)
	}
	return ""
}

// UpdateContact replaces the maintained storage location and contact phone
// of an item. Archived items are closed to maintenance.
func UpdateContact(item ManagedItem, storageLocation, contactPhone string) (ManagedItem, error) {
	if item.Status == StatusArchived {
		return item, InvalidStateError{Reason: "already archived"}
	}
	trimmed := strings.TrimSpace(storageLocation)
	if trimmed == "" {
		return item, ValidationError{Field: "storageLocation", Reason: "required"}
	}
	if utf8.RuneCountInString(trimmed) > maxStorageLocationLen {
		return item, ValidationError{Field: "storageLocation", Reason: "too long"}
	}
	phone := strings.TrimSpace(contactPhone)
	if err := ValidatePhone(phone); err != nil {
		return item, err
	}
	item.StorageLocation = trimmed
	item.ContactPhone = phone
	return item, nil
}
