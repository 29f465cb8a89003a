package sim

import "fmt"

// ActionTag is the closed set of activities a schedule may contain.
// The zero value is ActionEnd so that a missing or unreadable entry
// always resolves to the terminal tag.
type ActionTag int

const (
	ActionEnd ActionTag = iota
	ActionStart
	ActionLearn
	ActionEat
	ActionCourse
	ActionRest
	ActionAway
	numActionTags
)

var actionNames = [numActionTags]string{
	ActionEnd:    "end",
	ActionStart:  "start",
	ActionLearn:  "learn",
	ActionEat:    "eat",
	ActionCourse: "course",
	ActionRest:   "rest",
	ActionAway:   "away",
}

var actionsByName = func() map[string]ActionTag {
	m := make(map[string]ActionTag, numActionTags)
	for tag, name := range actionNames {
		m[name] = ActionTag(tag)
	}
	return m
}()

// ParseActionTag maps a schedule action string to its tag.
func ParseActionTag(s string) (ActionTag, error) {
	tag, ok := actionsByName[s]
	if !ok {
		return ActionEnd, fmt.Errorf("unknown action %q", s)
	}
	return tag, nil
}

// String returns the wire name of the tag.
func (a ActionTag) String() string {
	if a < 0 || a >= numActionTags {
		return fmt.Sprintf("ActionTag(%d)", int(a))
	}
	return actionNames[a]
}

// MarshalText writes the wire name.
func (a ActionTag) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the wire name.
func (a *ActionTag) UnmarshalText(b []byte) error {
	tag, err := ParseActionTag(string(b))
	if err != nil {
		return err
	}
	*a = tag
	return nil
}

// takesOccupantAway reports whether the tag means the occupant is somewhere
// other than the library.
func (a ActionTag) takesOccupantAway() bool {
	switch a {
	case ActionEat, ActionCourse, ActionRest, ActionAway:
		return true
	}
	return false
}
