package herald

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// RunDigestLoop sends the progress digest on the given cron schedule until
// ctx is cancelled. An unparseable expression disables the loop.
func (h *Herald) RunDigestLoop(ctx context.Context, expr string) {
	for {
		d := nextCronDuration(expr)
		if d == 0 {
			log.Printf("herald: digest schedule %q is not a valid cron expression, digest disabled", expr)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
			if err := h.SendDigest(ctx); err != nil {
				log.Printf("herald: digest: %v", err)
			}
		}
	}
}
