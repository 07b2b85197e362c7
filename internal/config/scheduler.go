package config

import (
	"strconv"
	"strings"
	"time"
)

// SchedulerConfig holds the knobs for the reminder scheduler.  All
// values are optional: the defaults match the documented behaviour of
// one tick per minute, reminder stages 24 hours and 1 hour ahead, and
// a one minute tolerance window around each stage target.
type SchedulerConfig struct {
	PollInterval time.Duration // cadence between ticks
	AheadMinutes []int         // reminder stages, minutes before the event
	Window       time.Duration // tolerance around now+ahead
}

// LoadSchedulerConfig reads environment variables to build a
// SchedulerConfig.  Supported variables:
//
//	SCHED_POLL_INTERVAL     – Go duration, default "60s"
//	SCHED_REMINDER_AHEAD_MIN – comma separated minute counts, default "1440,60"
//	SCHED_REMINDER_WINDOW   – Go duration, default "1m"
//
// Invalid values fall back to the defaults rather than failing startup.
func LoadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		PollInterval: envDur("SCHED_POLL_INTERVAL", 60*time.Second),
		AheadMinutes: parseMinuteList(envStr("SCHED_REMINDER_AHEAD_MIN", "1440,60")),
		Window:       envDur("SCHED_REMINDER_WINDOW", time.Minute),
	}
}

// parseMinuteList parses a comma separated list of positive minute
// counts, skipping malformed entries.  An entirely malformed list
// yields the default stage set.
func parseMinuteList(s string) []int {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return []int{1440, 60}
	}
	return out
}
