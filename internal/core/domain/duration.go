package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EstimatedDuration is the human-entered estimate of a project ("5 days", "1 week 2 days",
// "36h", "12:00:00"). The zero value and ZeroDuration both mean "not estimated".
type EstimatedDuration string

// ZeroDuration is the sentinel stored for projects without an estimate.
const ZeroDuration EstimatedDuration = "00:00:00"

const day = 24 * time.Hour

var durationUnits = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"mo": 30 * day, "mon": 30 * day, "month": 30 * day, "months": 30 * day,
}

var durationTerm = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-z]+)`)

var errDurationOverflow = errors.New("duration out of range")

// ParseEstimatedDuration validates s and returns it in canonical form
// (lower case, single spaces).
func ParseEstimatedDuration(s string) (EstimatedDuration, error) {
	raw := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if raw == "" {
		return "", Validation("estimated duration is required")
	}
	// A sign is only accepted in front of the whole estimate.
	if strings.HasPrefix(raw, "-") {
		return "", Validation("estimated duration cannot be negative")
	}
	d, err := parseDuration(raw)
	if err != nil {
		return "", Validation(fmt.Sprintf("invalid estimated duration %q", s))
	}
	if d < 0 {
		return "", Validation("estimated duration cannot be negative")
	}
	return EstimatedDuration(raw), nil
}

// Duration converts the estimate to a time.Duration.
func (d EstimatedDuration) Duration() (time.Duration, error) {
	if d == "" {
		return 0, nil
	}
	return parseDuration(string(d))
}

// IsZero reports whether the estimate is unset or amounts to nothing.
func (d EstimatedDuration) IsZero() bool {
	v, err := d.Duration()
	return err != nil || v == 0
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "0" {
		return 0, nil
	}
	if strings.Contains(raw, ":") {
		return parseClock(raw)
	}
	if d, err := time.ParseDuration(strings.ReplaceAll(raw, " ", "")); err == nil {
		return d, nil
	}

	matches := durationTerm.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no duration terms in %q", raw)
	}
	var covered strings.Builder
	var total time.Duration
	for _, m := range matches {
		unit, ok := durationUnits[m[2]]
		if !ok {
			return 0, fmt.Errorf("unknown duration unit %q", m[2])
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		v := n * float64(unit)
		if v >= math.MaxInt64 {
			return 0, errDurationOverflow
		}
		if total, err = addDuration(total, time.Duration(v)); err != nil {
			return 0, err
		}
		covered.WriteString(m[1] + m[2])
	}
	if covered.String() != strings.ReplaceAll(raw, " ", "") {
		return 0, fmt.Errorf("unparseable duration %q", raw)
	}
	return total, nil
}

// parseClock reads "HH:MM" or "HH:MM:SS"; hours may exceed 24.
func parseClock(raw string) (time.Duration, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock duration %q", raw)
	}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock duration %q", raw)
		}
		if int64(n) > math.MaxInt64/int64(units[i]) {
			return 0, errDurationOverflow
		}
		if total, err = addDuration(total, time.Duration(n)*units[i]); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// addDuration sums two non-negative durations.
func addDuration(a, b time.Duration) (time.Duration, error) {
	if a > math.MaxInt64-b {
		return 0, errDurationOverflow
	}
	return a + b, nil
}
