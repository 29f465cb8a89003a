package sim

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TimeOfDay is an offset from midnight of the simulated day.
// The simulation covers a single day, so no date component is carried.
type TimeOfDay time.Duration

// At returns the TimeOfDay for the given hour and minute.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Hours may reach 24 so that
// the end of the day can be written as "24:00".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("time of day %q: want HH:MM or HH:MM:SS", s)
	}
	limits := []int{24, 59, 59}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("time of day %q: %w", s, err)
		}
		if n < 0 || n > limits[i] {
			return 0, fmt.Errorf("time of day %q: field %d out of range", s, i+1)
		}
		fields[i] = n
	}
	t := TimeOfDay(time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second)
	if t > At(24, 0) {
		return 0, fmt.Errorf("time of day %q: past end of day", s)
	}
	return t, nil
}

// Add returns t shifted by d.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d)
}

// Sub returns the duration t-u.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(t - u)
}

// String renders the "HH:MM" label used in snapshots.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// Clock renders "HH:MM:SS", the format advisors exchange schedules in.
func (t TimeOfDay) Clock() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
}

// UnmarshalYAML lets config files write day_start: "07:00".
func (t *TimeOfDay) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseTimeOfDay(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML writes the "HH:MM" form.
func (t TimeOfDay) MarshalYAML() (any, error) {
	return t.String(), nil
}

// MarshalText writes the "HH:MM" form.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseLimit parses a reservation limit given either as "HH:MM" (the form
// the interactive set_limit command takes) or as a Go duration ("90m").
func ParseLimit(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		t, err := ParseTimeOfDay(s)
		if err != nil {
			return 0, err
		}
		return time.Duration(t), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("reservation limit %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("reservation limit %q must be non-negative", s)
	}
	return d, nil
}
