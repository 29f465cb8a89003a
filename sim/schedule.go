package sim

import (
	"errors"
	"fmt"
	"sort"
)

// ScheduleEntry is one (timeOfDay, action) pair of a daily plan.
type ScheduleEntry struct {
	At     TimeOfDay `json:"time"`
	Action ActionTag `json:"action"`
}

// ScheduleItem is the untyped form advisors exchange: {"time":"08:00:00","action":"learn"}.
type ScheduleItem struct {
	Time   string `json:"time"`
	Action string `json:"action"`
}

// ErrEmptySchedule is returned when an advisor produces no entries.
var ErrEmptySchedule = errors.New("schedule has no entries")

// Schedule is an immutable daily plan ordered by time. Entries sharing a
// time keep the order they were given in.
type Schedule struct {
	entries []ScheduleEntry
}

// NewSchedule copies and stably sorts entries by time.
func NewSchedule(entries []ScheduleEntry) Schedule {
	sorted := make([]ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return Schedule{entries: sorted}
}

// ParseScheduleItems converts advisor items into a Schedule.
// Any unreadable item rejects the whole response.
func ParseScheduleItems(items []ScheduleItem) (Schedule, error) {
	if len(items) == 0 {
		return Schedule{}, ErrEmptySchedule
	}
	entries := make([]ScheduleEntry, 0, len(items))
	for i, item := range items {
		at, err := ParseTimeOfDay(item.Time)
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule item %d: %w", i, err)
		}
		tag, err := ParseActionTag(item.Action)
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule item %d: %w", i, err)
		}
		entries = append(entries, ScheduleEntry{At: at, Action: tag})
	}
	return NewSchedule(entries), nil
}

// ActionAt returns the tag of the latest entry whose time is <= clock.
// Before the first entry, or for an empty schedule, it returns ActionEnd.
func (s Schedule) ActionAt(clock TimeOfDay) ActionTag {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].At <= clock {
			return s.entries[i].Action
		}
	}
	return ActionEnd
}

// NextAfter returns the first entry with the given tag strictly after clock.
func (s Schedule) NextAfter(clock TimeOfDay, tag ActionTag) (ScheduleEntry, bool) {
	for _, e := range s.entries {
		if e.At > clock && e.Action == tag {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

// Len returns the number of entries.
func (s Schedule) Len() int { return len(s.entries) }

// Entries returns a copy of the ordered entries.
func (s Schedule) Entries() []ScheduleEntry {
	out := make([]ScheduleEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Items renders the schedule in advisor wire form.
func (s Schedule) Items() []ScheduleItem {
	out := make([]ScheduleItem, len(s.entries))
	for i, e := range s.entries {
		out[i] = ScheduleItem{Time: e.At.Clock(), Action: e.Action.String()}
	}
	return out
}

// DefaultSchedule is the canned eight-slot day used when no advisor answers.
func DefaultSchedule() Schedule {
	return NewSchedule([]ScheduleEntry{
		{At: At(8, 0), Action: ActionStart},
		{At: At(8, 0), Action: ActionEat},
		{At: At(9, 0), Action: ActionLearn},
		{At: At(12, 0), Action: ActionEat},
		{At: At(13, 0), Action: ActionLearn},
		{At: At(17, 0), Action: ActionEat},
		{At: At(18, 0), Action: ActionLearn},
		{At: At(22, 0), Action: ActionEnd},
	})
}
