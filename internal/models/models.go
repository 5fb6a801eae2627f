package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is the local account record for an identity-provider subject.
// Created on first authenticated request; name/email are refreshed from the
// provider profile on subsequent logins.
type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SubjectID string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Name      string `gorm:"size:255" json:"name"`
	Email     string `gorm:"size:255;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"-"`

	// ContestTypes is the user's reminder subscription set. The whole set
	// is replaced on every preferences update, never merged.
	ContestTypes []ContestType `gorm:"many2many:reminder_preferences" json:"-"`
}

// Platform is a contest provider (Codeforces, LeetCode, ...). Rows are
// created lazily on first sighting of a new platform name and never deleted.
type Platform struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}

// ContestType is a contest category. The table is a fixed enumeration
// seeded at startup with stable ids; see services.SeedContestTypes.
type ContestType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;not null" json:"name"`

	Users []User `gorm:"many2many:reminder_preferences" json:"-"`
}

// Contest is one upcoming contest occurrence. The whole table is destroyed
// and rebuilt on every aggregation run, so ids are not stable across runs.
type Contest struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"size:255;not null" json:"name"`
	StartTime     int64  `gorm:"not null;index" json:"startTime"`
	Duration      int64  `gorm:"not null" json:"duration"`
	PlatformID    uint   `gorm:"not null" json:"platformId"`
	ContestTypeID uint   `gorm:"not null" json:"contestTypeId"`

	Platform    Platform    `json:"platform"`
	ContestType ContestType `json:"contestType"`
}

// AggregationRun is an audit record of one aggregation pass.
type AggregationRun struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
	ContestCount int            `json:"contestCount"`
	SourceCounts datatypes.JSON `gorm:"type:json" json:"sourceCounts"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Platform
func (Platform) TableName() string {
	return "platforms"
}

// TableName overrides the table name for ContestType
func (ContestType) TableName() string {
	return "contest_types"
}

// TableName overrides the table name for Contest
func (Contest) TableName() string {
	return "contests"
}

// TableName overrides the table name for AggregationRun
func (AggregationRun) TableName() string {
	return "aggregation_runs"
}
