package poller

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		raw   string
		every time.Duration
		cron  bool
	}{
		{name: "duration", raw: "10m", every: 10 * time.Minute},
		{name: "seconds", raw: "600s", every: 600 * time.Second},
		{name: "prefixed interval", raw: "interval:45s", every: 45 * time.Second},
		{name: "every prefix", raw: "every:1h", every: time.Hour},
		{name: "cron", raw: "*/5 * * * *", cron: true},
		{name: "prefixed cron", raw: "cron:0 0 * * *", cron: true},
		{name: "descriptor", raw: "@hourly", cron: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchedule(tt.raw)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.raw, err)
			}
			if tt.cron {
				if got.Cron == nil {
					t.Fatalf("expected cron schedule for %q", tt.raw)
				}
				return
			}
			if got.Every != tt.every {
				t.Fatalf("Every = %v, want %v", got.Every, tt.every)
			}
		})
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "0s", "interval:-5s"} {
		if _, err := ParseSchedule(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestScheduleNext(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)

	interval, err := ParseSchedule("10m")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	if got := interval.Next(now); !got.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("interval Next = %v", got)
	}

	cronSched, err := ParseSchedule("*/5 * * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	next := cronSched.Next(now)
	if !next.After(now) || next.Minute()%5 != 0 {
		t.Fatalf("cron Next = %v", next)
	}
}
