package domain

import (
	"strings"
	"time"
)

// AnnouncementType scopes where a notice is shown.
type AnnouncementType string

const (
	AnnouncementSystem AnnouncementType = "SYSTEM"
	AnnouncementRegion AnnouncementType = "REGION"
)

// AnnouncementStatus follows the same pending/approved/rejected moderation
// pattern as postings.
type AnnouncementStatus string

const (
	AnnouncementPending   AnnouncementStatus = "pending"
	AnnouncementPublished AnnouncementStatus = "published"
	AnnouncementRejected  AnnouncementStatus = "rejected"
)

// Announcement is a staff-issued notice shown on the campus portal.
type Announcement struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Type        AnnouncementType   `json:"type"`
	Campus      string             `json:"campus,omitempty"`
	Status      AnnouncementStatus `json:"status"`
	PublisherID int64              `json:"publisher_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Version     int64              `json:"version"`
}

const maxAnnouncementContentLen = 5000

// ValidateAnnouncement checks a new announcement before it enters review.
func ValidateAnnouncement(a Announcement) error {
	if strings.TrimSpace(a.Title) == "" {
		return ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(a.Content) == "" {
		return ValidationError{Field: "content", Reason: "required"}
	}
	if len([]rune(a.Content)) > maxAnnouncementContentLen {
		return ValidationError{Field: "content", Reason: "too long"}
	}
	if a.Type != AnnouncementSystem && a.Type != AnnouncementRegion {
		return ValidationError{Field: "type", Reason: "must be SYSTEM or REGION"}
	}
	if a.Type == AnnouncementRegion && strings.TrimSpace(a.Campus) == "" {
		return ValidationError{Field: "campus", Reason: "required for REGION announcements"}
	}
	return nil
}

// ResolveAnnouncement applies a moderation decision to a pending
// announcement.
func ResolveAnnouncement(a Announcement, approve bool) (Announcement, error) {
	if a.Status != AnnouncementPending {
		return a, InvalidStateError{Reason: "announcement already reviewed"}
	}
	if approve {
		a.Status = AnnouncementPublished
	} else {
		a.Status = AnnouncementRejected
	}
	return a, nil
}
