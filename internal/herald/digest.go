package herald

import (
	"fmt"
	"strings"

	"github.com/tbryce/muster/internal/army"
	"github.com/tbryce/muster/internal/roster"
	"gorm.io/gorm"
)

// DigestReport holds the progress of every army at a point in time.
type DigestReport struct {
	Armies        []army.Progress
	TotalModels   int
	PaintedModels int
}

// BuildDigest computes the current progress of all armies. Returns nil
// when there are no armies to report on.
func BuildDigest(db *gorm.DB, stages roster.Stages) (*DigestReport, error) {
	armies, err := army.List(db)
	if err != nil {
		return nil, fmt.Errorf("herald: digest: %w", err)
	}
	if len(armies) == 0 {
		return nil, nil
	}

	report := &DigestReport{}
	for _, a := range armies {
		p, err := army.Summarize(db, a.ID, stages)
		if err != nil {
			return nil, fmt.Errorf("herald: digest: %w", err)
		}
		report.Armies = append(report.Armies, *p)
		report.TotalModels += p.TotalModels
		report.PaintedModels += p.PaintedModels
	}
	return report, nil
}

// FormatDigest renders a digest report as a notification event.
func FormatDigest(report *DigestReport) Event {
	ev := Event{
		Title:    "Painting progress digest",
		Severity: SeverityInfo,
	}

	var lines []string
	for _, p := range report.Armies {
		lines = append(lines, fmt.Sprintf("%s: %d/%d models (%d units)",
			p.Name, p.PaintedModels, p.TotalModels, p.UnitCount))
		ev.Fields = append(ev.Fields, Field{
			Name:  p.Name,
			Value: fmt.Sprintf("%d/%d models", p.PaintedModels, p.TotalModels),
		})
	}
	lines = append(lines, fmt.Sprintf("Overall: %d/%d models painted",
		report.PaintedModels, report.TotalModels))
	ev.Body = strings.Join(lines, "\n")
	return ev
}
