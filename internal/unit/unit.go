// Package unit provides unit lifecycle operations: creation from drafts,
// atomic batch import, guarded state updates and repair-on-load.
package unit

import (
	"errors"
	"fmt"

	"github.com/tbryce/muster/internal/models"
	"github.com/tbryce/muster/internal/roster"
	"gorm.io/gorm"
)

// ListFilters holds optional filters for listing units.
type ListFilters struct {
	ArmyID   string
	Faction  string
	State    string
	Category string
}

// Create validates a single draft and stores the resulting record. The
// army, when given, supplies the faction name.
func Create(db *gorm.DB, d roster.DraftEntry, armyID string, stages roster.Stages) (*models.Unit, error) {
	faction := ""
	if armyID != "" {
		var a models.Army
		if err := db.Where("id = ?", armyID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("unit: army not found: %s", armyID)
			}
			return nil, fmt.Errorf("unit: check army %s: %w", armyID, err)
		}
		faction = a.Name
	}

	u, err := roster.ValidateEntry(d, faction, stages)
	if err != nil {
		return nil, err
	}
	if armyID != "" {
		u.ArmyID = &armyID
	}

	if err := db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("unit: create: %w", err)
	}
	return u, nil
}

// Import validates every draft and stores them in one transaction. The
// batch is all-or-nothing: the first invalid entry rejects the whole
// import and nothing is written. Errors name the offending entry.
func Import(db *gorm.DB, entries []roster.DraftEntry, armyID string, stages roster.Stages) ([]models.Unit, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("unit: import: no entries")
	}

	faction := ""
	if armyID != "" {
		var a models.Army
		if err := db.Where("id = ?", armyID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("unit: army not found: %s", armyID)
			}
			return nil, fmt.Errorf("unit: check army %s: %w", armyID, err)
		}
		faction = a.Name
	}

	units := make([]models.Unit, 0, len(entries))
	for i, d := range entries {
		u, err := roster.ValidateEntry(d, faction, stages)
		if err != nil {
			return nil, fmt.Errorf("unit: import entry %d (%s): %w", i+1, d.Name, err)
		}
		if armyID != "" {
			u.ArmyID = &armyID
		}
		units = append(units, *u)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		for i := range units {
			if err := tx.Create(&units[i]).Error; err != nil {
				return fmt.Errorf("unit: import entry %d (%s): %w", i+1, units[i].Name, err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return units, nil
}

// Get retrieves a unit by ID.
func Get(db *gorm.DB, id string) (*models.Unit, error) {
	var u models.Unit
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unit: not found: %s", id)
		}
		return nil, fmt.Errorf("unit: get %s: %w", id, err)
	}
	return &u, nil
}

// List returns units matching the given filters, ordered by creation time.
func List(db *gorm.DB, filters ListFilters) ([]models.Unit, error) {
	q := db.Model(&models.Unit{})

	if filters.ArmyID != "" {
		q = q.Where("army_id = ?", filters.ArmyID)
	}
	if filters.Faction != "" {
		q = q.Where("faction = ?", filters.Faction)
	}
	if filters.State != "" {
		q = q.Where("state = ?", filters.State)
	}
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}

	var units []models.Unit
	if err := q.Order("created_at ASC, id ASC").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("unit: list: %w", err)
	}
	return units, nil
}

// Update applies a guarded stage/progress change to a stored unit. The
// read-modify-write happens inside one transaction so concurrent updates
// to the same unit serialize.
func Update(db *gorm.DB, id string, req roster.TransitionRequest, stages roster.Stages) (*models.Unit, error) {
	var u models.Unit
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("unit: not found: %s", id)
			}
			return fmt.Errorf("unit: get %s for update: %w", id, err)
		}
		if err := roster.ApplyTransition(&u, req, stages); err != nil {
			return err
		}
		if err := tx.Save(&u).Error; err != nil {
			return fmt.Errorf("unit: update %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes a unit by ID.
func Delete(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Unit{})
	if res.Error != nil {
		return fmt.Errorf("unit: delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("unit: not found: %s", id)
	}
	return nil
}

// RepairAll loads every stored unit, heals records that drifted outside
// the schema and persists the rewritten ones. It returns how many records
// changed. Running it on a healthy database writes nothing.
func RepairAll(db *gorm.DB, stages roster.Stages) (int, error) {
	var units []models.Unit
	if err := db.Find(&units).Error; err != nil {
		return 0, fmt.Errorf("unit: repair: load: %w", err)
	}

	repaired := 0
	for i := range units {
		oldID := units[i].ID
		changed, err := roster.RepairRecord(&units[i], stages)
		if err != nil {
			return repaired, fmt.Errorf("unit: repair %s: %w", oldID, err)
		}
		if !changed {
			continue
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if units[i].ID != oldID {
				// The primary key was reissued; drop the old row first.
				if err := tx.Where("id = ?", oldID).Delete(&models.Unit{}).Error; err != nil {
					return err
				}
				return tx.Create(&units[i]).Error
			}
			return tx.Save(&units[i]).Error
		})
		if err != nil {
			return repaired, fmt.Errorf("unit: repair %s: persist: %w", oldID, err)
		}
		repaired++
	}
	return repaired, nil
}
