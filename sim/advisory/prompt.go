package advisory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inference-sim/seat-sim/sim"
)

const scheduleExample = `[
{"time":"07:30:00","action":"start"},
{"time":"07:30:00","action":"eat"},
{"time":"08:00:00","action":"course"},
{"time":"09:00:00","action":"learn"},
{"time":"12:00:00","action":"eat"},
{"time":"13:00:00","action":"course"},
{"time":"14:15:00","action":"rest"},
{"time":"16:15:00","action":"course"},
{"time":"17:00:00","action":"learn"},
{"time":"18:00:00","action":"eat"},
{"time":"18:45:00","action":"learn"},
{"time":"20:00:00","action":"rest"},
{"time":"22:30:00","action":"end"}
]`

// SchedulePrompt asks for one student's day as a JSON array.
func SchedulePrompt(req sim.ScheduleRequest) string {
	var b strings.Builder
	b.WriteString("You simulate the behavior of students in a university library. Plan one student's day.\n\n")
	b.WriteString("Student profile:\n")
	fmt.Fprintf(&b, "- daily rhythm: %s\n", req.Profile.Punctuality)
	fmt.Fprintf(&b, "- focus: %s\n", req.Profile.Focus)
	fmt.Fprintf(&b, "- course load: %s\n", req.Profile.CourseLoad)
	fmt.Fprintf(&b, "\nThe day runs from %s to %s. Use only these six actions:\n", req.DayStart, req.DayEnd)
	b.WriteString("start (begin the day), learn (study in the library), eat (a meal; three per day), ")
	b.WriteString("course (attend a class), rest (rest away from the library), end (finish the day).\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. 2 to 4 courses per day, each 1 to 2.5 hours, at most 8 hours of courses in total.\n")
	b.WriteString("2. Meals last 0.5 to 1 hour.\n")
	b.WriteString("3. The day starts between 07:00 and 11:00.\n\n")
	b.WriteString("Example (early riser, medium focus, light course load):\n")
	b.WriteString(scheduleExample)
	b.WriteString("\n\nReply with the JSON array only, in this exact form, and nothing else:\n")
	b.WriteString(`[{"time":"HH:MM:00","action":"one of the six actions"}]`)
	return b.String()
}

// LeavePrompt asks whether a student leaving the library keeps their seat.
func LeavePrompt(req sim.LeaveRequest) string {
	schedule, _ := json.Marshal(req.Schedule)
	var b strings.Builder
	b.WriteString("You simulate the behavior of students in a university library. ")
	b.WriteString("Decide whether a student who is leaving the library reserves their seat.\n\n")
	fmt.Fprintf(&b, "- disposition: %s\n", req.Disposition)
	fmt.Fprintf(&b, "- seat satisfaction: %.2f\n", req.Satisfaction)
	fmt.Fprintf(&b, "- current time: %s\n", req.Clock.Clock())
	fmt.Fprintf(&b, "- longest reservation the library tolerates: %s\n", req.ReservationLimit)
	fmt.Fprintf(&b, "- schedule: %s\n\n", schedule)
	b.WriteString("The student is only in the library during \"learn\" entries.\n")
	b.WriteString("Example: orderly, 2, 12:00:00, 2h0m0s, the schedule above -> {\"action\":\"leave\"}\n\n")
	b.WriteString("Reply with JSON only, and nothing else:\n")
	b.WriteString(`{"action":"leave" or "reserve"}`)
	return b.String()
}
