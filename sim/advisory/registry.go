// Package advisory provides the Advisor backends the library consults for
// daily schedules and reserve-or-leave decisions.
package advisory

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/inference-sim/seat-sim/sim"
)

const (
	NameFallback  = "fallback"
	NameHeuristic = "heuristic"
	NameChat      = "chat"
)

// ValidAdvisors is the set of recognized advisor names.
var ValidAdvisors = map[string]bool{"": true, NameFallback: true, NameHeuristic: true, NameChat: true}

// IsValidAdvisor returns true if name is a recognized advisor.
func IsValidAdvisor(name string) bool {
	return ValidAdvisors[name]
}

// ValidAdvisorNames returns the recognized names, sorted, for help text.
func ValidAdvisorNames() []string {
	names := make([]string, 0, len(ValidAdvisors))
	for n := range ValidAdvisors {
		if n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Options carries everything any backend might need.
type Options struct {
	Key sim.SimulationKey // seeds the heuristic backend

	BaseURL     string // chat completions endpoint root, e.g. https://api.openai.com/v1
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client // optional; overrides Timeout
}

// NewAdvisor creates an advisor by name. Empty string defaults to fallback.
func NewAdvisor(name string, opts Options) (sim.Advisor, error) {
	switch name {
	case "", NameFallback:
		return sim.FallbackAdvisor{}, nil
	case NameHeuristic:
		return NewHeuristic(opts.Key), nil
	case NameChat:
		return NewChat(opts)
	default:
		return nil, fmt.Errorf("unknown advisor %q; valid: %v", name, ValidAdvisorNames())
	}
}
