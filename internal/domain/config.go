package domain

import (
	"strings"
	"unicode/utf8"
)

// SystemConfig holds the mutable global settings staff maintain. Type
// taxonomies are append-only: entries are unique and keep insertion order,
// and no operation removes them.
type SystemConfig struct {
	ItemTypes         []string `json:"item_types"`
	FeedbackTypes     []string `json:"feedback_types"`
	ClaimValidityDays int      `json:"claim_validity_days"`
	PublishLimit      int      `json:"publish_limit"`
	Version           int64    `json:"version"`
}

const (
	maxTypeNameLen = 15

	MinClaimValidityDays = 1
	MaxClaimValidityDays = 365
	MinPublishLimit      = 1
	MaxPublishLimit      = 200
)

// DefaultConfig seeds a fresh deployment.
func DefaultConfig() SystemConfig {
	return SystemConfig{
		ItemTypes:         []string{"电子", "饭卡", "文体", "证件", "衣包", "饰品"},
		FeedbackTypes:     []string{"虚假信息", "违规内容", "恶意骚扰", "其他"},
		ClaimValidityDays: 30,
		PublishLimit:      10,
	}
}

// AddItemType appends a new item type, preserving existing order. Adding a
// type that already exists returns the config unchanged without error.
func AddItemType(cfg SystemConfig, candidate string) (SystemConfig, error) {
	next, err := appendDistinct(cfg.ItemTypes, candidate, "itemType")
	if err != nil {
		return cfg, err
	}
	cfg.ItemTypes = next
	return cfg, nil
}

// AddFeedbackType appends a new feedback type with the same contract as
// AddItemType.
func AddFeedbackType(cfg SystemConfig, candidate string) (SystemConfig, error) {
	next, err := appendDistinct(cfg.FeedbackTypes, candidate, "feedbackType")
	if err != nil {
		return cfg, err
	}
	cfg.FeedbackTypes = next
	return cfg, nil
}

func appendDistinct(set []string, candidate, field string) ([]string, error) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return nil, ValidationError{Field: field, Reason: "required"}
	}
	if utf8.RuneCountInString(trimmed) > maxTypeNameLen {
		return nil, ValidationError{Field: field, Reason: "too long"}
	}
	for _, existing := range set {
		if existing == trimmed {
			return set, nil
		}
	}
	next := make([]string, len(set), len(set)+1)
	copy(next, set)
	return append(next, trimmed), nil
}

// SetClaimValidityDays replaces the claim window. Out-of-range values are
// rejected, never clamped.
func SetClaimValidityDays(cfg SystemConfig, value int) (SystemConfig, error) {
	if value < MinClaimValidityDays || value > MaxClaimValidityDays {
		return cfg, ValidationError{Field: "claimValidityDays", Reason: "must be between 1 and 365"}
	}
	cfg.ClaimValidityDays = value
	return cfg, nil
}

// SetPublishLimit replaces the per-day publish limit with the same contract
// as SetClaimValidityDays.
func SetPublishLimit(cfg SystemConfig, value int) (SystemConfig, error) {
	if value < MinPublishLimit || value > MaxPublishLimit {
		return cfg, ValidationError{Field: "publishLimit", Reason: "must be between 1 and 200"}
	}
	cfg.PublishLimit = value
	return cfg, nil
}
