package roster

import (
	"time"

	"github.com/tbryce/muster/internal/models"
)

// TransitionRequest asks for a change to a stored record's stage and/or
// progress. Nil fields are left untouched.
type TransitionRequest struct {
	State         *string
	ProgressCount *int
}

// ApplyTransition applies an allowed stage/progress change to u in place.
// Progress is applied before the stage is checked, so a single request may
// raise progress and advance the stage together. A unit may not leave the
// initial stage while models are still unaccounted for; characters carry
// no such gate because their progress always equals their model count.
// Rejections are returned as *ValidationError and leave u unchanged except
// for already-applied progress.
func ApplyTransition(u *models.Unit, req TransitionRequest, stages Stages) error {
	if req.State == nil && req.ProgressCount == nil {
		return nil
	}

	if req.State != nil && !stages.Contains(*req.State) {
		return invalid("state", "unknown stage %q", *req.State)
	}

	changed := false

	if u.Category == models.CategoryUnit && req.ProgressCount != nil {
		p := *req.ProgressCount
		if p < 0 {
			p = 0
		}
		if p > u.ModelCount {
			p = u.ModelCount
		}
		if p != u.ProgressCount {
			u.ProgressCount = p
			changed = true
		}
	}

	if u.Category == models.CategoryCharacter && u.ProgressCount != u.ModelCount {
		u.ProgressCount = u.ModelCount
		changed = true
	}

	if req.State != nil && *req.State != u.State {
		if u.Category == models.CategoryUnit && *req.State != stages.Initial() && u.ProgressCount != u.ModelCount {
			return invalid("state", "cannot advance to %q until all %d models are complete (currently %d)",
				*req.State, u.ModelCount, u.ProgressCount)
		}
		u.State = *req.State
		changed = true
	}

	if changed {
		u.UpdatedAt = time.Now()
	}
	return nil
}
