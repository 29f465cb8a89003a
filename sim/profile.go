package sim

import "fmt"

// Disposition describes how an occupant treats shared seats when leaving.
type Disposition int

const (
	Orderly Disposition = iota
	Selfish
)

func (d Disposition) String() string {
	switch d {
	case Orderly:
		return "orderly"
	case Selfish:
		return "selfish"
	}
	return fmt.Sprintf("Disposition(%d)", int(d))
}

// MarshalText writes the lower-case name.
func (d Disposition) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Punctuality is the occupant's daily rhythm.
type Punctuality int

const (
	Early Punctuality = iota
	OnTime
	Late
)

func (p Punctuality) String() string {
	switch p {
	case Early:
		return "early"
	case OnTime:
		return "normal"
	case Late:
		return "late"
	}
	return fmt.Sprintf("Punctuality(%d)", int(p))
}

// MarshalText writes the lower-case name.
func (p Punctuality) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Level grades focus and course load.
type Level int

const (
	Low Level = iota
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// MarshalText writes the lower-case name.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Profile is the behavioral description handed to advisors.
type Profile struct {
	Disposition Disposition `json:"disposition"`
	Punctuality Punctuality `json:"punctuality"`
	Focus       Level       `json:"focus"`
	CourseLoad  Level       `json:"course_load"`
}

// Preferences weigh seat amenities, each in [0,1].
type Preferences struct {
	Lamp   float64 `json:"lamp"`
	Socket float64 `json:"socket"`
	Space  float64 `json:"space"`
}

// Major is the sub-group an occupant is drawn from.
type Major string

const (
	Humanities  Major = "humanities"
	Science     Major = "science"
	Engineering Major = "engineering"
)

// Diligence splits each major into three archetypes.
type Diligence string

const (
	Diligent Diligence = "diligent"
	Average  Diligence = "medium"
	Lazy     Diligence = "lazy"
)

// Archetype is a preset profile and preference set.
type Archetype struct {
	Major       Major
	Diligence   Diligence
	Profile     Profile
	Preferences Preferences
}

// Name returns "major/diligence".
func (a Archetype) Name() string {
	return string(a.Major) + "/" + string(a.Diligence)
}

var (
	diligentProfile = Profile{Disposition: Orderly, Punctuality: OnTime, Focus: High, CourseLoad: High}
	earlyDiligent   = Profile{Disposition: Orderly, Punctuality: Early, Focus: High, CourseLoad: High}
	averageProfile  = Profile{Disposition: Orderly, Punctuality: OnTime, Focus: Medium, CourseLoad: Medium}
	lazyProfile     = Profile{Disposition: Selfish, Punctuality: Late, Focus: Low, CourseLoad: Low}
)

var archetypes = map[Major]map[Diligence]Archetype{
	Humanities: {
		Diligent: {Humanities, Diligent, diligentProfile, Preferences{Lamp: 0.7, Socket: 0.4, Space: 0.6}},
		Average:  {Humanities, Average, averageProfile, Preferences{Lamp: 0.5, Socket: 0.5, Space: 0.5}},
		Lazy:     {Humanities, Lazy, lazyProfile, Preferences{Lamp: 0.3, Socket: 0.6, Space: 0.4}},
	},
	Science: {
		Diligent: {Science, Diligent, earlyDiligent, Preferences{Lamp: 0.8, Socket: 0.7, Space: 0.5}},
		Average:  {Science, Average, averageProfile, Preferences{Lamp: 0.6, Socket: 0.6, Space: 0.5}},
		Lazy:     {Science, Lazy, lazyProfile, Preferences{Lamp: 0.4, Socket: 0.7, Space: 0.3}},
	},
	Engineering: {
		Diligent: {Engineering, Diligent, earlyDiligent, Preferences{Lamp: 0.9, Socket: 0.9, Space: 0.7}},
		Average:  {Engineering, Average, averageProfile, Preferences{Lamp: 0.7, Socket: 0.7, Space: 0.6}},
		Lazy:     {Engineering, Lazy, lazyProfile, Preferences{Lamp: 0.5, Socket: 0.8, Space: 0.4}},
	},
}

// ArchetypeFor returns the preset for a major and diligence level.
func ArchetypeFor(m Major, d Diligence) (Archetype, bool) {
	a, ok := archetypes[m][d]
	return a, ok
}

// diligenceOf buckets a uniform draw: >= 0.7 diligent, <= 0.3 lazy, else medium.
func diligenceOf(draw float64) Diligence {
	switch {
	case draw >= 0.7:
		return Diligent
	case draw <= 0.3:
		return Lazy
	}
	return Average
}
