package roster

import (
	"fmt"
	"strings"

	"github.com/tbryce/muster/internal/models"
)

// Field limits for stored records.
const (
	MaxNameLen    = 120
	MaxFactionLen = 120
	MaxDetailsLen = 4000
	MaxModelCount = 500
)

// ValidationError reports a single field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("roster: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateEntry checks a draft against the schema rules and returns the
// canonical stored record, or a *ValidationError naming the offending
// field. The draft itself is never modified.
func ValidateEntry(d DraftEntry, faction string, stages Stages) (*models.Unit, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(name) > MaxNameLen {
		return nil, invalid("name", "longer than %d characters", MaxNameLen)
	}

	faction = strings.TrimSpace(faction)
	if len(faction) > MaxFactionLen {
		return nil, invalid("faction", "longer than %d characters", MaxFactionLen)
	}

	category := d.Category
	if category == "" {
		category = models.CategoryUnit
	}
	if category != models.CategoryUnit && category != models.CategoryCharacter {
		return nil, invalid("category", "must be %s or %s, got %q", models.CategoryUnit, models.CategoryCharacter, d.Category)
	}

	if d.ModelCount < 1 || d.ModelCount > MaxModelCount {
		return nil, invalid("modelCount", "must be between 1 and %d, got %d", MaxModelCount, d.ModelCount)
	}

	if d.ProgressCount < 0 || d.ProgressCount > MaxModelCount {
		return nil, invalid("progressCount", "must be between 0 and %d, got %d", MaxModelCount, d.ProgressCount)
	}
	progress := d.ProgressCount
	if progress > d.ModelCount {
		progress = d.ModelCount
	}
	if category == models.CategoryCharacter {
		progress = d.ModelCount
	}

	details := strings.TrimSpace(d.Details)
	if len(details) > MaxDetailsLen {
		return nil, invalid("details", "longer than %d characters", MaxDetailsLen)
	}

	command := d.Command
	if command.Champion < 0 || command.Musician < 0 || command.BannerBearer < 0 {
		return nil, invalid("command", "counts must be non-negative")
	}
	if category == models.CategoryCharacter {
		command = CommandComposition{}
	}

	state := d.State
	if state == "" {
		state = stages.Initial()
	}
	if !stages.Contains(state) {
		return nil, invalid("state", "unknown stage %q", d.State)
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	return &models.Unit{
		ID:            id,
		Faction:       faction,
		Name:          name,
		Category:      category,
		ModelCount:    d.ModelCount,
		ProgressCount: progress,
		State:         state,
		Details:       details,
		Champion:      command.Champion,
		Musician:      command.Musician,
		BannerBearer:  command.BannerBearer,
	}, nil
}

// RepairRecord heals a stored record in place: malformed IDs are reissued,
// unknown stages fall back to the initial one, counts are pulled back into
// range and the character invariants are re-asserted. It reports whether
// anything changed so the caller can decide to persist. Repairing an
// already-valid record is a no-op.
func RepairRecord(u *models.Unit, stages Stages) (bool, error) {
	changed := false

	if !ValidID(u.ID) {
		id, err := GenerateID()
		if err != nil {
			return changed, err
		}
		u.ID = id
		changed = true
	}

	if u.Category != models.CategoryUnit && u.Category != models.CategoryCharacter {
		u.Category = models.CategoryUnit
		changed = true
	}

	if !stages.Contains(u.State) {
		u.State = stages.Initial()
		changed = true
	}

	if u.ModelCount < 1 {
		u.ModelCount = 1
		changed = true
	}

	if u.Champion < 0 {
		u.Champion = 0
		changed = true
	}
	if u.Musician < 0 {
		u.Musician = 0
		changed = true
	}
	if u.BannerBearer < 0 {
		u.BannerBearer = 0
		changed = true
	}

	if u.Category == models.CategoryCharacter {
		if u.Champion != 0 || u.Musician != 0 || u.BannerBearer != 0 {
			u.Champion, u.Musician, u.BannerBearer = 0, 0, 0
			changed = true
		}
		if u.ProgressCount != u.ModelCount {
			u.ProgressCount = u.ModelCount
			changed = true
		}
		return changed, nil
	}

	if u.ProgressCount < 0 {
		u.ProgressCount = 0
		changed = true
	}
	if u.ProgressCount > u.ModelCount {
		u.ProgressCount = u.ModelCount
		changed = true
	}

	return changed, nil
}
