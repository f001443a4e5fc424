package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard 5-field expression (no seconds field),
// matching what users typically paste from crontab.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ResolveCronInterval parses a standard cron expression and returns the
// interval, in whole seconds, between its next two firings from now. This
// is used once at `schedule add --cron` time to populate EverySecs: the
// daemon itself only ever polls on EverySecs, never re-evaluates expr.
func ResolveCronInterval(expr string) (everySecs int64, startAt int64, err error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	now := time.Now()
	first := schedule.Next(now)
	second := schedule.Next(first)

	interval := second.Sub(first)
	if interval <= 0 {
		return 0, 0, fmt.Errorf("cron expression %q does not repeat", expr)
	}

	return int64(interval.Seconds()), first.Unix(), nil
}
