// Package herald pushes painting milestones and digests to chat platforms.
package herald

import (
	"context"
	"fmt"
	"log"

	"github.com/tbryce/muster/internal/models"
	"github.com/tbryce/muster/internal/roster"
	"gorm.io/gorm"
)

// Severity hints for event rendering.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
)

// Event is one formatted notification ready for delivery.
type Event struct {
	Title    string
	Body     string
	Severity string
	Fields   []Field
}

// Field is a key-value pair displayed alongside an event.
type Field struct {
	Name  string
	Value string
}

// Notifier delivers events to a single platform.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
}

// Herald fans events out to the configured notifiers. Delivery is
// best-effort: failures are logged, never returned to the caller.
type Herald struct {
	db        *gorm.DB
	stages    roster.Stages
	notifiers []Notifier
}

// New creates a Herald over the given notifiers.
func New(db *gorm.DB, stages roster.Stages, notifiers ...Notifier) *Herald {
	return &Herald{db: db, stages: stages, notifiers: notifiers}
}

// UnitFinished announces that a unit reached the terminal painting stage.
// When that unit was the last unfinished one in its army, the army is
// announced as fully painted too.
func (h *Herald) UnitFinished(ctx context.Context, u *models.Unit) {
	ev := Event{
		Title:    fmt.Sprintf("%s is finished", u.Name),
		Body:     fmt.Sprintf("All %d models are done.", u.ModelCount),
		Severity: SeveritySuccess,
		Fields: []Field{
			{Name: "Category", Value: u.Category},
		},
	}
	if u.Faction != "" {
		ev.Fields = append(ev.Fields, Field{Name: "Army", Value: u.Faction})
	}
	h.send(ctx, ev)

	if h.db == nil || u.ArmyID == nil {
		return
	}
	var remaining int64
	err := h.db.Model(&models.Unit{}).
		Where("army_id = ? AND state <> ?", *u.ArmyID, h.stages.Terminal()).
		Count(&remaining).Error
	if err != nil {
		log.Printf("herald: check army %s completion: %v", *u.ArmyID, err)
		return
	}
	if remaining > 0 {
		return
	}
	var a models.Army
	if err := h.db.Where("id = ?", *u.ArmyID).First(&a).Error; err != nil {
		log.Printf("herald: load army %s: %v", *u.ArmyID, err)
		return
	}
	h.send(ctx, Event{
		Title:    fmt.Sprintf("%s is fully painted", a.Name),
		Body:     fmt.Sprintf("Every unit in %s has reached %s.", a.Name, h.stages.Terminal()),
		Severity: SeveritySuccess,
	})
}

// SendDigest builds and delivers the progress digest. It does nothing
// when no armies exist.
func (h *Herald) SendDigest(ctx context.Context) error {
	report, err := BuildDigest(h.db, h.stages)
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}
	h.send(ctx, FormatDigest(report))
	return nil
}

func (h *Herald) send(ctx context.Context, ev Event) {
	for _, n := range h.notifiers {
		if err := n.Send(ctx, ev); err != nil {
			log.Printf("herald: send %q: %v", ev.Title, err)
		}
	}
}
