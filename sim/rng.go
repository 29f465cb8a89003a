package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey, identical configuration and an
// advisor that always falls back MUST produce byte-identical snapshots.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSeats is the RNG subsystem for seat amenity assignment.
	// Uses master seed directly.
	SubsystemSeats = "seats"

	// SubsystemRoster is the RNG subsystem for splitting each major's
	// population into diligence levels.
	SubsystemRoster = "roster"
)

// SubsystemOccupant returns the subsystem name for occupant N.
// Advisors that need randomness derive a per-occupant stream from it so that
// results do not depend on the order in which concurrent calls complete.
func SubsystemOccupant(id OccupantID) string {
	return fmt.Sprintf("occupant_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemSeats: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
// Use DeriveSeed to build independent streams inside worker goroutines.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(DeriveSeed(p.key, name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// DeriveSeed returns the seed ForSubsystem would use for name.
// Pure function; safe to call from any goroutine.
func DeriveSeed(key SimulationKey, name string) int64 {
	if name == SubsystemSeats {
		return int64(key)
	}
	return int64(key) ^ fnv1a64(name)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
