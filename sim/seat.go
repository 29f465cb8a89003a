// Defines the Seat struct: one cell of the library grid and its
// Vacant -> Taken -> Reserved -> Flagged lifecycle.

package sim

import (
	"fmt"
	"time"
)

// Coord identifies a seat on the grid. X is the row, Y the column.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the "x,y" key used in snapshots.
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// SeatStatus is the lifecycle state of a seat.
type SeatStatus int

const (
	SeatVacant   SeatStatus = iota // free
	SeatTaken                      // occupant present
	SeatReserved                   // occupant away, seat held
	SeatFlagged                    // reservation seen by a sweep, pending eviction
)

var seatStatusNames = [...]string{"vacant", "taken", "reserved", "flagged"}
var seatStatusCodes = [...]string{"V", "T", "R", "F"}

func (s SeatStatus) String() string {
	if s < 0 || int(s) >= len(seatStatusNames) {
		return fmt.Sprintf("SeatStatus(%d)", int(s))
	}
	return seatStatusNames[s]
}

// Code is the one-letter form used in snapshots and grid renderings.
func (s SeatStatus) Code() string {
	if s < 0 || int(s) >= len(seatStatusCodes) {
		return "?"
	}
	return seatStatusCodes[s]
}

// Held reports whether the status carries an occupant reference.
func (s SeatStatus) Held() bool {
	return s != SeatVacant
}

// HoldClock selects when a seat's hold clock runs.
type HoldClock string

const (
	// HoldClockUnattended runs only while the seat is Reserved or Flagged and
	// restarts each time a reservation begins or its holder returns.
	HoldClockUnattended HoldClock = "unattended"
	// HoldClockOccupied runs while the seat has any holder and restarts only
	// when a new occupant sits down.
	HoldClockOccupied HoldClock = "occupied"
)

// IsValidHoldClock reports whether name is a recognized hold clock scope.
func IsValidHoldClock(name string) bool {
	switch HoldClock(name) {
	case HoldClockUnattended, HoldClockOccupied:
		return true
	}
	return false
}

// NeighborState is what a seat needs to know about one neighbor to
// recompute its crowding.
type NeighborState struct {
	Status SeatStatus
	Window bool
}

// Seat is a single library seat. Its coordinate and amenities never change;
// status and occupant move only through the transition methods below, each
// of which is a no-op when its precondition does not hold.
type Seat struct {
	coord  Coord
	lamp   bool
	socket bool
	window bool

	status      SeatStatus
	occupant    OccupantID
	hasOccupant bool

	holdClock HoldClock
	held      time.Duration
	crowding  float64
}

// NewSeat creates a vacant seat. window is fixed by the caller from the grid
// boundary.
func NewSeat(coord Coord, lamp, socket, window bool, clock HoldClock) *Seat {
	if clock == "" {
		clock = HoldClockUnattended
	}
	return &Seat{coord: coord, lamp: lamp, socket: socket, window: window, holdClock: clock}
}

func (s *Seat) Coord() Coord { return s.coord }
func (s *Seat) HasLamp() bool { return s.lamp }
func (s *Seat) HasSocket() bool { return s.socket }
func (s *Seat) IsWindow() bool { return s.window }
func (s *Seat) Status() SeatStatus { return s.status }
func (s *Seat) Crowding() float64 { return s.crowding }
func (s *Seat) HeldFor() time.Duration { return s.held }
func (s *Seat) HoldClock() HoldClock { return s.holdClock }

// Occupant returns the holder of the seat, if any.
func (s *Seat) Occupant() (OccupantID, bool) {
	return s.occupant, s.hasOccupant
}

// heldBy reports whether id is the seat's current holder.
func (s *Seat) heldBy(id OccupantID) bool {
	return s.hasOccupant && s.occupant == id
}

// Occupy claims a vacant seat for id: Vacant -> Taken.
// Returns false if the seat was not vacant.
func (s *Seat) Occupy(id OccupantID) bool {
	if s.status != SeatVacant {
		return false
	}
	s.status = SeatTaken
	s.occupant = id
	s.hasOccupant = true
	s.held = 0
	return true
}

// Release ends a stay: Taken -> Vacant, or Taken -> Reserved when
// keepReservation is set. The occupant is kept only in the Reserved case.
func (s *Seat) Release(keepReservation bool) bool {
	if s.status != SeatTaken {
		return false
	}
	if !keepReservation {
		s.clear()
		return true
	}
	s.status = SeatReserved
	if s.holdClock == HoldClockUnattended {
		s.held = 0
	}
	return true
}

// Resume returns the holder to the seat: Reserved or Flagged -> Taken.
func (s *Seat) Resume() bool {
	if s.status != SeatReserved && s.status != SeatFlagged {
		return false
	}
	s.status = SeatTaken
	if s.holdClock == HoldClockUnattended {
		s.held = 0
	}
	return true
}

// Inspect marks a reservation during a compliance sweep: Reserved -> Flagged.
func (s *Seat) Inspect() bool {
	if s.status != SeatReserved {
		return false
	}
	s.status = SeatFlagged
	return true
}

// Evict removes an overstayed reservation: Flagged -> Vacant, but only once
// the hold clock has run strictly past limit.
func (s *Seat) Evict(limit time.Duration) bool {
	if s.status != SeatFlagged || s.held <= limit {
		return false
	}
	s.clear()
	return true
}

// AdvanceHold runs the hold clock for one tick according to the seat's scope.
func (s *Seat) AdvanceHold(delta time.Duration) {
	switch s.holdClock {
	case HoldClockOccupied:
		if s.status != SeatVacant {
			s.held += delta
		}
	default:
		if s.status == SeatReserved || s.status == SeatFlagged {
			s.held += delta
		}
	}
}

// RecomputeCrowding stores the crowding score derived from the up-to-8
// neighbors: (occupied - 0.5*windowNeighbors) / len(neighbors).
func (s *Seat) RecomputeCrowding(neighbors []NeighborState) {
	if len(neighbors) == 0 {
		s.crowding = 0
		return
	}
	score := 0.0
	for _, n := range neighbors {
		if n.Status.Held() {
			score++
		}
		if n.Window {
			score -= 0.5
		}
	}
	s.crowding = score / float64(len(neighbors))
}

func (s *Seat) clear() {
	s.status = SeatVacant
	s.occupant = 0
	s.hasOccupant = false
	s.held = 0
}

// amenityCode is the B/L/S/N letter of the amenity grid.
func (s *Seat) amenityCode() string {
	switch {
	case s.lamp && s.socket:
		return "B"
	case s.lamp:
		return "L"
	case s.socket:
		return "S"
	}
	return "N"
}
