package trace

import (
	"testing"
)

func TestSimulationTrace_RecordLeave_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a leave record is recorded
	st.RecordLeave(LeaveRecord{
		OccupantID:   7,
		Tick:         12,
		Clock:        "10:00",
		Seat:         "3,4",
		Satisfaction: 4.5,
		Reserved:     true,
		Source:       "fallback",
		Attempts:     4,
	})

	// THEN the trace contains one leave record with correct data
	if len(st.Leaves) != 1 {
		t.Fatalf("expected 1 leave, got %d", len(st.Leaves))
	}
	if st.Leaves[0].OccupantID != 7 {
		t.Errorf("expected occupant 7, got %d", st.Leaves[0].OccupantID)
	}
	if !st.Leaves[0].Reserved {
		t.Error("expected reserved=true")
	}
}

func TestSimulationTrace_RecordAcquisition_OnlyAtFullLevel(t *testing.T) {
	// GIVEN a decisions-level trace and a full trace
	decisions := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	full := NewSimulationTrace(TraceConfig{Level: TraceLevelFull})

	// WHEN the same acquisition is recorded in both
	rec := AcquisitionRecord{OccupantID: 1, Tick: 3, Clock: "08:00", Seat: "0,0", Score: 6.5}
	decisions.RecordAcquisition(rec)
	full.RecordAcquisition(rec)

	// THEN only the full trace keeps it
	if len(decisions.Acquisitions) != 0 {
		t.Errorf("expected decisions trace to drop acquisitions, got %d", len(decisions.Acquisitions))
	}
	if len(full.Acquisitions) != 1 {
		t.Errorf("expected 1 acquisition in full trace, got %d", len(full.Acquisitions))
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN multiple records are added
	st.RecordSchedule(ScheduleRecord{OccupantID: 0, Source: "advisor", Entries: 8})
	st.RecordSchedule(ScheduleRecord{OccupantID: 1, Source: "fallback", Entries: 8})
	st.RecordEviction(EvictionRecord{Tick: 9, Seat: "1,1", OccupantID: 1, HeldMins: 75})
	st.RecordEviction(EvictionRecord{Tick: 10, Seat: "2,2", OccupantID: 0, HeldMins: 90})

	// THEN order is preserved
	if st.Schedules[0].OccupantID != 0 || st.Schedules[1].OccupantID != 1 {
		t.Error("schedule records out of order")
	}
	if st.Evictions[0].Seat != "1,1" || st.Evictions[1].Seat != "2,2" {
		t.Error("eviction records out of order")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"decisions", true},
		{"full", true},
		{"", true},
		{"verbose", false},
		{"DECISIONS", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.valid)
		}
	}
}
