package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/models"
)

// FindOrCreateUser resolves the local user row for an identity-provider
// subject, creating it on first login and refreshing name/email when the
// provider copy has changed.
func FindOrCreateUser(db *gorm.DB, subjectID, name, email string) (models.User, error) {
	var user models.User
	err := db.Where("subject_id = ?", subjectID).
		FirstOrCreate(&user, models.User{SubjectID: subjectID, Name: name, Email: email}).Error
	if err != nil {
		return models.User{}, err
	}

	if user.Name != name || user.Email != email {
		user.Name = name
		user.Email = email
		if err := db.Model(&user).Updates(map[string]interface{}{
			"name":  name,
			"email": email,
		}).Error; err != nil {
			return models.User{}, err
		}
	}

	return user, nil
}

// ReplacePreferences overwrites the user's entire subscription set with the
// given contest-type ids. The set is replaced, never merged. Unknown ids
// are rejected before anything is written.
func ReplacePreferences(db *gorm.DB, userID uint, contestTypeIDs []uint) error {
	var contestTypes []models.ContestType
	if len(contestTypeIDs) > 0 {
		if err := db.Where("id IN ?", contestTypeIDs).Find(&contestTypes).Error; err != nil {
			return err
		}
		if len(contestTypes) != len(dedupIDs(contestTypeIDs)) {
			return fmt.Errorf("unknown contest type id in %v", contestTypeIDs)
		}
	}

	user := models.User{ID: userID}
	return db.Model(&user).Association("ContestTypes").Replace(contestTypes)
}

// PreferencesForUser returns the user's subscribed contest types ordered by id.
func PreferencesForUser(db *gorm.DB, userID uint) ([]models.ContestType, error) {
	var contestTypes []models.ContestType
	err := db.
		Joins("JOIN reminder_preferences rp ON rp.contest_type_id = contest_types.id").
		Where("rp.user_id = ?", userID).
		Order("contest_types.id asc").
		Find(&contestTypes).Error
	if err != nil {
		return nil, err
	}
	return contestTypes, nil
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
