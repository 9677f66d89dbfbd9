package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func samplePosting() Posting {
	return Posting{
		ID:           "posting-1",
		Kind:         KindLost,
		ItemType:     "电子",
		ItemName:     "平板电脑",
		Location:     "自习楼一层休息区",
		EventTime:    time.Now().Add(-2 * time.Hour),
		ContactName:  "周同学",
		ContactPhone: "13400002222",
		PublishedAt:  time.Now().Add(-time.Hour),
	}
}

func TestApproveProducesRecord(t *testing.T) {
	now := time.Now()
	rec := Approve(samplePosting(), "admin", now)

	if rec.Result != ReviewApproved {
		t.Fatalf("expected approved, got %s", rec.Result)
	}
	if rec.RejectReason != nil {
		t.Fatalf("approved record must not carry a reason")
	}
	if !rec.ReviewedAt.Equal(now) {
		t.Fatalf("reviewedAt not set")
	}
}

func TestRejectTrimsReason(t *testing.T) {
	rec, err := Reject(samplePosting(), "admin", "  incomplete description  ", time.Now())
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rec.Result != ReviewRejected {
		t.Fatalf("expected rejected, got %s", rec.Result)
	}
	if rec.RejectReason == nil || *rec.RejectReason != "incomplete description" {
		t.Fatalf("reason not trimmed: %+v", rec.RejectReason)
	}
}

func TestRejectReasonValidation(t *testing.T) {
	if _, err := Reject(samplePosting(), "admin", "   ", time.Now()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError for blank reason, got %v", err)
	}

	long := strings.Repeat("理", 501)
	if _, err := Reject(samplePosting(), "admin", long, time.Now()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError for long reason, got %v", err)
	}
}

func TestPromoteApprovedPosting(t *testing.T) {
	p := samplePosting()
	approvedAt := time.Now()

	item := Promote(p, approvedAt)
	if item.Status != StatusUnmatched {
		t.Fatalf("promoted item must start unmatched, got %s", item.Status)
	}
	if item.ClaimCount != 0 {
		t.Fatalf("promoted item must start with zero claims")
	}
	if item.ID != p.ID || item.ItemName != p.ItemName {
		t.Fatalf("promoted item lost posting fields: %+v", item)
	}
	if !item.ApprovedAt.Equal(approvedAt) {
		t.Fatalf("approvedAt not carried over")
	}
}

func TestValidatePosting(t *testing.T) {
	p := samplePosting()
	if err := ValidatePosting(p); err != nil {
		t.Fatalf("valid posting rejected: %v", err)
	}

	bad := p
	bad.ContactPhone = "12ab5678901"
	if err := ValidatePosting(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError for bad phone, got %v", err)
	}

	bad = p
	bad.Kind = "stolen"
	if err := ValidatePosting(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError for bad kind, got %v", err)
	}

	neg := -5
	bad = p
	bad.HasReward = true
	bad.RewardAmount = &neg
	if err := ValidatePosting(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError for negative reward, got %v", err)
	}
}
