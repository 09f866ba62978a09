package server

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tbryce/muster/internal/models"
	"gorm.io/gorm"
)

// activityEvent holds data for a unit-activity SSE event.
type activityEvent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	State         string `json:"state"`
	ProgressCount int    `json:"progress_count"`
	ModelCount    int    `json:"model_count"`
	ArmyID        string `json:"army_id,omitempty"`
}

// handleEvents streams unit activity to the client: every unit saved after
// the connection opened is pushed as an "activity" event.
func handleEvents(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// Only push changes made after this point.
		lastSeen := time.Now()

		ctx := c.Request.Context()
		ticker := time.NewTicker(3 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				var changed []models.Unit
				db.Where("updated_at > ?", lastSeen).
					Order("updated_at ASC").
					Find(&changed)

				if len(changed) == 0 {
					continue
				}
				lastSeen = changed[len(changed)-1].UpdatedAt

				for _, u := range changed {
					evt := activityEvent{
						ID:            u.ID,
						Name:          u.Name,
						State:         u.State,
						ProgressCount: u.ProgressCount,
						ModelCount:    u.ModelCount,
					}
					if u.ArmyID != nil {
						evt.ArmyID = *u.ArmyID
					}
					writeSSE(c.Writer, "activity", evt)
				}
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
