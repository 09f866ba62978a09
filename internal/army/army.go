// Package army provides army lifecycle operations.
package army

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tbryce/muster/internal/models"
	"github.com/tbryce/muster/internal/roster"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new army.
type CreateOpts struct {
	Name        string
	Description string
}

// GenerateID creates a unique army ID in army-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("army: generate ID: %w", err)
	}
	return "army-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new army with an auto-generated ID.
func Create(db *gorm.DB, opts CreateOpts) (*models.Army, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, fmt.Errorf("army: name is required")
	}
	if len(name) > roster.MaxFactionLen {
		return nil, fmt.Errorf("army: name longer than %d characters", roster.MaxFactionLen)
	}

	var count int64
	if err := db.Model(&models.Army{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("army: check name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("army: name already taken: %s", name)
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	a := models.Army{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(opts.Description),
	}
	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("army: create: %w", err)
	}
	return &a, nil
}

// Get retrieves an army by ID, preloading its units.
func Get(db *gorm.DB, id string) (*models.Army, error) {
	var a models.Army
	if err := db.Preload("Units").Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("army: not found: %s", id)
		}
		return nil, fmt.Errorf("army: get %s: %w", id, err)
	}
	return &a, nil
}

// List returns all armies ordered by name.
func List(db *gorm.DB) ([]models.Army, error) {
	var armies []models.Army
	if err := db.Order("name ASC").Find(&armies).Error; err != nil {
		return nil, fmt.Errorf("army: list: %w", err)
	}
	return armies, nil
}

// Delete removes an army and all its units.
func Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("army_id = ?", id).Delete(&models.Unit{}).Error; err != nil {
			return fmt.Errorf("army: delete units of %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Army{})
		if res.Error != nil {
			return fmt.Errorf("army: delete %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("army: not found: %s", id)
		}
		return nil
	})
}

// StateCount holds a painting stage and the number of units in it.
type StateCount struct {
	State string
	Count int
}

// Progress summarizes how far an army's painting has come.
type Progress struct {
	ArmyID        string
	Name          string
	UnitCount     int
	TotalModels   int
	PaintedModels int
	ByState       []StateCount
}

// Summarize computes the painting progress of one army. ByState follows the
// configured stage order; stages with no units are included with zero counts.
func Summarize(db *gorm.DB, id string, stages roster.Stages) (*Progress, error) {
	var a models.Army
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("army: not found: %s", id)
		}
		return nil, fmt.Errorf("army: get %s: %w", id, err)
	}

	type row struct {
		State    string
		Units    int
		Models   int
		Progress int
	}
	var rows []row
	if err := db.Model(&models.Unit{}).
		Select("state, COUNT(*) as units, SUM(model_count) as models, SUM(progress_count) as progress").
		Where("army_id = ?", id).
		Group("state").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("army: summarize %s: %w", id, err)
	}

	p := &Progress{ArmyID: a.ID, Name: a.Name}
	byState := make(map[string]int)
	for _, r := range rows {
		p.UnitCount += r.Units
		p.TotalModels += r.Models
		p.PaintedModels += r.Progress
		byState[r.State] = r.Units
	}
	for _, st := range stages {
		p.ByState = append(p.ByState, StateCount{State: st, Count: byState[st]})
	}
	return p, nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for range 2 {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Army{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("army: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("army: could not generate unique ID")
}
