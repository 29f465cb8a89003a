package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures schedule, leave and eviction decisions.
	TraceLevelDecisions TraceLevel = "decisions"
	// TraceLevelFull also captures every seat-acquisition attempt.
	TraceLevelFull TraceLevel = "full"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	TraceLevelFull:      true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a library run.
type SimulationTrace struct {
	Config       TraceConfig
	Schedules    []ScheduleRecord
	Leaves       []LeaveRecord
	Acquisitions []AcquisitionRecord
	Evictions    []EvictionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:       config,
		Schedules:    make([]ScheduleRecord, 0),
		Leaves:       make([]LeaveRecord, 0),
		Acquisitions: make([]AcquisitionRecord, 0),
		Evictions:    make([]EvictionRecord, 0),
	}
}

// RecordSchedule appends a schedule record.
func (st *SimulationTrace) RecordSchedule(record ScheduleRecord) {
	st.Schedules = append(st.Schedules, record)
}

// RecordLeave appends a leave decision record.
func (st *SimulationTrace) RecordLeave(record LeaveRecord) {
	st.Leaves = append(st.Leaves, record)
}

// RecordAcquisition appends an acquisition record. Only kept at TraceLevelFull.
func (st *SimulationTrace) RecordAcquisition(record AcquisitionRecord) {
	if st.Config.Level != TraceLevelFull {
		return
	}
	st.Acquisitions = append(st.Acquisitions, record)
}

// RecordEviction appends an eviction record.
func (st *SimulationTrace) RecordEviction(record EvictionRecord) {
	st.Evictions = append(st.Evictions, record)
}
