package models

import (
	"time"
)

type Posting struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	Kind         string    `json:"kind" gorm:"type:text;index"`
	ItemType     string    `json:"itemType" gorm:"type:text"`
	ItemName     string    `json:"itemName" gorm:"type:text"`
	Campus       string    `json:"campus" gorm:"type:text;index"`
	Location     string    `json:"location" gorm:"type:text"`
	EventTime    time.Time `json:"eventTime" gorm:"type:timestamp with time zone"`
	Features     string    `json:"features" gorm:"type:text"`
	ContactName  string    `json:"contactName" gorm:"type:text"`
	ContactPhone string    `json:"contactPhone" gorm:"type:text"`
	HasReward    bool      `json:"hasReward" gorm:"type:boolean;not null;default:false"`
	RewardAmount *int      `json:"rewardAmount"`
	Photos       []string  `json:"photos" gorm:"type:json;serializer:json"`
	PublisherID  string    `json:"publisherID" gorm:"type:text;index"`
	PublishedAt  time.Time `json:"publishedAt" gorm:"type:timestamp with time zone;index"`
}

type ReviewRecord struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostingID    string    `json:"postingID" gorm:"type:text;index"`
	Posting      Posting   `json:"posting" gorm:"type:json;serializer:json"`
	Result       string    `json:"result" gorm:"type:text;index"`
	Reviewer     string    `json:"reviewer" gorm:"type:text"`
	ReviewedAt   time.Time `json:"reviewedAt" gorm:"type:timestamp with time zone;index"`
	RejectReason *string   `json:"rejectReason" gorm:"type:text"`
}

type Item struct {
	ID              string    `json:"id" gorm:"primaryKey;type:text"`
	Kind            string    `json:"kind" gorm:"type:text;index"`
	Status          string    `json:"status" gorm:"type:text;index"`
	ItemType        string    `json:"itemType" gorm:"type:text;index"`
	ItemName        string    `json:"itemName" gorm:"type:text"`
	Campus          string    `json:"campus" gorm:"type:text;index"`
	Location        string    `json:"location" gorm:"type:text"`
	EventTime       time.Time `json:"eventTime" gorm:"type:timestamp with time zone"`
	Features        string    `json:"features" gorm:"type:text"`
	StorageLocation string    `json:"storageLocation" gorm:"type:text"`
	ContactName     string    `json:"contactName" gorm:"type:text"`
	ContactPhone    string    `json:"contactPhone" gorm:"type:text"`
	HasReward       bool      `json:"hasReward" gorm:"type:boolean;not null;default:false"`
	RewardAmount    *int      `json:"rewardAmount"`
	Photos          []string  `json:"photos" gorm:"type:json;serializer:json"`
	ApprovedAt      time.Time `json:"approvedAt" gorm:"type:timestamp with time zone;index"`
	ClaimCount      int       `json:"claimCount" gorm:"not null;default:0"`
	ArchiveMethod   *string   `json:"archiveMethod" gorm:"type:text"`
	Version         int64     `json:"version" gorm:"not null;default:1"`
}

type SystemConfig struct {
	ID                int64    `json:"id" gorm:"primaryKey"`
	ItemTypes         []string `json:"itemTypes" gorm:"type:json;serializer:json"`
	FeedbackTypes     []string `json:"feedbackTypes" gorm:"type:json;serializer:json"`
	ClaimValidityDays int      `json:"claimValidityDays" gorm:"not null"`
	PublishLimit      int      `json:"publishLimit" gorm:"not null"`
	Version           int64    `json:"version" gorm:"not null;default:0"`
}

type Account struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username      int64      `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name" gorm:"type:text"`
	UserType      string     `json:"userType" gorm:"type:text;index"`
	Campus        string     `json:"campus" gorm:"type:text"`
	PasswordHash  string     `json:"-" gorm:"type:text"`
	FirstLogin    bool       `json:"firstLogin" gorm:"type:boolean;not null;default:true"`
	DisabledUntil *time.Time `json:"disabledUntil" gorm:"type:timestamp with time zone"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
	Version       int64      `json:"version" gorm:"not null;default:0"`
}

type Announcement struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:text"`
	Content     string    `json:"content" gorm:"type:text"`
	Type        string    `json:"type" gorm:"type:text;index"`
	Campus      string    `json:"campus" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:text;index"`
	PublisherID int64     `json:"publisherID" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
	Version     int64     `json:"version" gorm:"not null;default:0"`
}
