package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ReviewResult is the terminal outcome of moderating a posting.
type ReviewResult string

const (
	ReviewApproved ReviewResult = "approved"
	ReviewRejected ReviewResult = "rejected"
)

// ReviewRecord is an immutable audit entry capturing a moderation decision.
// RejectReason is present if and only if Result is ReviewRejected.
type ReviewRecord struct {
	Posting      Posting      `json:"posting"`
	Result       ReviewResult `json:"reviewResult"`
	Reviewer     string       `json:"reviewer"`
	ReviewedAt   time.Time    `json:"reviewedAt"`
	RejectReason *string      `json:"rejectReason,omitempty"`
}

const maxRejectReasonLen = 500

// Approve concludes a pending posting with an approved record. It is always
// permitted while the posting is pending.
func Approve(p Posting, reviewer string, now time.Time) ReviewRecord {
	return ReviewRecord{
		Posting:    p,
		Result:     ReviewApproved,
		Reviewer:   reviewer,
		ReviewedAt: now,
	}
}

// Reject concludes a pending posting with a rejected record. The reason is
// trimmed and must be non-empty and at most 500 characters.
func Reject(p Posting, reviewer, reason string, now time.Time) (ReviewRecord, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return ReviewRecord{}, ValidationError{Field: "rejectReason", Reason: "required"}
	}
	if utf8.RuneCountInString(trimmed) > maxRejectReasonLen {
		return ReviewRecord{}, ValidationError{Field: "rejectReason", Reason: "too long"}
	}
	return ReviewRecord{
		Posting:      p,
		Result:       ReviewRejected,
		Reviewer:     reviewer,
		ReviewedAt:   now,
		RejectReason: &trimmed,
	}, nil
}

// Promote turns an approved posting into a managed item entering the
// lifecycle at unmatched.
func Promote(p Posting, approvedAt time.Time) ManagedItem {
	return ManagedItem{
		ID:           p.ID,
		Kind:         p.Kind,
		Status:       StatusUnmatched,
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
		ApprovedAt:   approvedAt,
	}
}
