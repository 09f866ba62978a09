package publish

import (
	"fmt"
	"strings"
	"time"

	"github.com/tbryce/muster/internal/herald"
)

// RenderSnapshot renders a digest report as a markdown document.
func RenderSnapshot(report *herald.DigestReport, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Painting Progress\n\n")
	fmt.Fprintf(&b, "_Updated %s_\n", now.Format("2006-01-02"))

	for _, p := range report.Armies {
		fmt.Fprintf(&b, "\n## %s\n\n", p.Name)
		fmt.Fprintf(&b, "%d units, %d/%d models painted\n\n", p.UnitCount, p.PaintedModels, p.TotalModels)
		b.WriteString("| Stage | Units |\n|---|---|\n")
		for _, sc := range p.ByState {
			fmt.Fprintf(&b, "| %s | %d |\n", sc.State, sc.Count)
		}
	}

	fmt.Fprintf(&b, "\n**Overall: %d/%d models painted**\n", report.PaintedModels, report.TotalModels)
	return b.String()
}
