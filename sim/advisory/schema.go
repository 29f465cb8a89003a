package advisory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/inference-sim/seat-sim/sim"
)

const scheduleSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["time", "action"],
    "properties": {
      "time": {"type": "string", "pattern": "^[0-2]?[0-9]:[0-5][0-9](:[0-5][0-9])?$"},
      "action": {"enum": ["start", "learn", "eat", "course", "rest", "away", "end"]}
    }
  }
}`

// "reverse" is accepted as a synonym of "reserve".
const leaveSchemaJSON = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "action": {"enum": ["leave", "reserve", "reverse"]}
  }
}`

var (
	scheduleSchema = jsonschema.MustCompileString("schedule.schema.json", scheduleSchemaJSON)
	leaveSchema    = jsonschema.MustCompileString("leave.schema.json", leaveSchemaJSON)
)

// extractJSON pulls the first JSON array or object out of a model reply,
// tolerating markdown fences and surrounding prose.
func extractJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", errors.New("no JSON in reply")
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return "", errors.New("unterminated JSON in reply")
	}
	return s[start : end+1], nil
}

// decodeValidated extracts, schema-checks and decodes a reply into out.
func decodeValidated(reply string, schema *jsonschema.Schema, out any) error {
	raw, err := extractJSON(reply)
	if err != nil {
		return fmt.Errorf("%w: %v", sim.ErrMalformedReply, err)
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", sim.ErrMalformedReply, err)
	}
	if obj, ok := doc.(map[string]any); ok {
		if inner, ok := obj["schedule"]; ok && schema == scheduleSchema {
			doc = inner
			b, _ := json.Marshal(inner)
			raw = string(b)
		}
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", sim.ErrMalformedReply, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", sim.ErrMalformedReply, err)
	}
	return nil
}

// ParseScheduleReply decodes a model's schedule reply.
func ParseScheduleReply(reply string) ([]sim.ScheduleItem, error) {
	var items []sim.ScheduleItem
	if err := decodeValidated(reply, scheduleSchema, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ParseLeaveReply decodes a model's leave reply, normalizing "reverse".
func ParseLeaveReply(reply string) (sim.LeaveResponse, error) {
	var resp sim.LeaveResponse
	if err := decodeValidated(reply, leaveSchema, &resp); err != nil {
		return sim.LeaveResponse{}, err
	}
	if resp.Action == "reverse" {
		resp.Action = sim.LeaveActionReserve
	}
	return resp, nil
}
