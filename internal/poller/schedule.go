package poller

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule decides when the next poll cycle starts: either a fixed interval
// or a cron schedule. The zero value is not usable; build one with
// ParseSchedule.
type Schedule struct {
	Every time.Duration
	Cron  cron.Schedule

	spec string
}

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule accepts a Go duration ("10m", "600s") or a five-field cron
// spec ("*/10 * * * *", "@hourly"). To force interpretation, prefix the
// string with "cron:" or "interval:".
func ParseSchedule(raw string) (Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Schedule{}, fmt.Errorf("empty schedule")
	}

	switch {
	case strings.HasPrefix(s, "cron:"):
		return parseCron(strings.TrimSpace(strings.TrimPrefix(s, "cron:")))
	case strings.HasPrefix(s, "interval:"):
		return parseInterval(strings.TrimSpace(strings.TrimPrefix(s, "interval:")))
	case strings.HasPrefix(s, "every:"):
		return parseInterval(strings.TrimSpace(strings.TrimPrefix(s, "every:")))
	}

	if d, err := time.ParseDuration(s); err == nil {
		return newInterval(s, d)
	}
	return parseCron(s)
}

func parseInterval(s string) (Schedule, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	return newInterval(s, d)
}

func newInterval(spec string, d time.Duration) (Schedule, error) {
	if d <= 0 {
		return Schedule{}, fmt.Errorf("interval must be > 0, got %s", d)
	}
	return Schedule{Every: d, spec: spec}, nil
}

func parseCron(s string) (Schedule, error) {
	sched, err := cronParser.Parse(s)
	if err != nil {
		return Schedule{}, fmt.Errorf("schedule %q is neither a duration nor a cron spec: %w", s, err)
	}
	return Schedule{Cron: sched, spec: s}, nil
}

// Next returns when the cycle after now should start.
func (s Schedule) Next(now time.Time) time.Time {
	if s.Cron != nil {
		return s.Cron.Next(now)
	}
	return now.Add(s.Every)
}

func (s Schedule) String() string { return s.spec }
