package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

// Fixed contest-type enumeration. The normalizer emits these names and the
// repository maps them onto stable ids; both sides must agree exactly.
const (
	ContestTypeWeekly   uint = 1
	ContestTypeBiweekly uint = 2
	ContestTypeDiv1     uint = 3
	ContestTypeDiv2     uint = 4
	ContestTypeDiv3     uint = 5
	ContestTypeDiv4     uint = 6
	ContestTypeOther    uint = 7
)

var contestTypeIDs = map[string]uint{
	"Weekly":   ContestTypeWeekly,
	"Biweekly": ContestTypeBiweekly,
	"Div1":     ContestTypeDiv1,
	"Div2":     ContestTypeDiv2,
	"Div3":     ContestTypeDiv3,
	"Div4":     ContestTypeDiv4,
	"Other":    ContestTypeOther,
}

// ContestTypeIDByName resolves a category name to its fixed id. Unrecognized
// names fall back to Other; new categories are never created at runtime.
func ContestTypeIDByName(name string) uint {
	if id, ok := contestTypeIDs[name]; ok {
		return id
	}
	return ContestTypeOther
}

// SeedContestTypes inserts the fixed contest-type rows if missing and then
// verifies all of them exist. Missing seed rows after this call are a
// startup failure, not something resolved lazily per request.
func SeedContestTypes(db *gorm.DB) error {
	rows := []models.ContestType{
		{ID: ContestTypeWeekly, Name: "Weekly"},
		{ID: ContestTypeBiweekly, Name: "Biweekly"},
		{ID: ContestTypeDiv1, Name: "Div1"},
		{ID: ContestTypeDiv2, Name: "Div2"},
		{ID: ContestTypeDiv3, Name: "Div3"},
		{ID: ContestTypeDiv4, Name: "Div4"},
		{ID: ContestTypeOther, Name: "Other"},
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed contest types: %w", err)
	}

	var count int64
	if err := db.Model(&models.ContestType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to verify contest types: %w", err)
	}
	if count < int64(len(rows)) {
		return fmt.Errorf("contest type seed incomplete: %d of %d rows present", count, len(rows))
	}
	return nil
}

// ListContestTypes returns the fixed enumeration ordered by id.
func ListContestTypes(db *gorm.DB) ([]models.ContestType, error) {
	var contestTypes []models.ContestType
	if err := db.Order("id asc").Find(&contestTypes).Error; err != nil {
		return nil, err
	}
	return contestTypes, nil
}

// FindOrCreatePlatform resolves a platform row by name, creating it on
// first sighting. Platforms are never deleted.
func FindOrCreatePlatform(db *gorm.DB, name string) (models.Platform, error) {
	var platform models.Platform
	err := db.Where("name = ?", name).
		FirstOrCreate(&platform, models.Platform{Name: name}).Error
	return platform, err
}

// ReplaceAllContests atomically swaps the contest table for the given set.
// Delete and bulk insert run in one transaction so a concurrent reader sees
// either the old complete set or the new complete set, never a partial one.
// On failure the transaction rolls back and a TransactionError is returned.
func ReplaceAllContests(db *gorm.DB, contests []models.Contest) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Contest{}).Error; err != nil {
			return err
		}
		if len(contests) == 0 {
			return nil
		}
		return tx.CreateInBatches(&contests, 100).Error
	})
	if err != nil {
		return &types.TransactionError{Err: err}
	}
	return nil
}

// ListContests returns all contests joined with their platform and contest
// type, ordered by start time ascending.
func ListContests(db *gorm.DB) ([]models.Contest, error) {
	var contests []models.Contest
	err := db.Preload("Platform").Preload("ContestType").
		Order("start_time asc").
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// ContestsStartingBetween returns contests whose start time falls in
// [lo, hi] (epoch seconds, inclusive), with the contest type joined,
// ordered by start time.
func ContestsStartingBetween(db *gorm.DB, lo, hi int64) ([]models.Contest, error) {
	var contests []models.Contest
	err := db.Preload("ContestType").
		Where("start_time BETWEEN ? AND ?", lo, hi).
		Order("start_time asc").
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// SubscribersForContestType returns every user subscribed to the given
// contest type, in a stable order.
func SubscribersForContestType(db *gorm.DB, contestTypeID uint) ([]models.User, error) {
	var users []models.User
	err := db.
		Joins("JOIN reminder_preferences rp ON rp.user_id = users.id").
		Where("rp.contest_type_id = ?", contestTypeID).
		Order("users.id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
