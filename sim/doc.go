// Package sim provides the occupancy simulation engine for library seats.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - seat.go: Seat lifecycle (vacant → taken → reserved → flagged → vacant)
//   - occupant.go: Occupant state machine and the action-tag dispatch table
//   - library.go: The fixed-order tick loop (evict, clock, occupants, seats, inspect)
//
// # Architecture
//
// The sim package defines the core types and the Advisor port; implementations
// live in sub-packages:
//   - sim/advisory/: Advisor backends (heuristic, OpenAI-compatible chat) and registry
//   - sim/snapshot/: Per-tick snapshot stream (JSON lines, optional zstd)
//   - sim/trace/: Decision trace recording
//
// # Key Interfaces
//
//   - Advisor: schedule generation and reserve-or-leave decisions
//   - SnapshotSink: receives one TickSnapshot per tick
//
// AdvisoryPolicy wraps any Advisor with per-call timeouts, bounded retries and
// the deterministic fallback, so a failing backend never stalls a tick.
package sim
