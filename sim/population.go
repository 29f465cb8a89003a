package sim

// buildGrid lays out rows*cols seats in row-major order (index x*cols+y).
// Window seats are the boundary ring. All lamp draws are taken before any
// socket draw so that changing one probability never reshuffles the other
// amenity.
func buildGrid(cfg Config, rng *PartitionedRNG) []*Seat {
	n := cfg.Rows * cfg.Cols
	r := rng.ForSubsystem(SubsystemSeats)
	lamps := make([]bool, n)
	for i := range lamps {
		lamps[i] = r.Float64() < cfg.LampProbability
	}
	sockets := make([]bool, n)
	for i := range sockets {
		sockets[i] = r.Float64() < cfg.SocketProbability
	}

	seats := make([]*Seat, 0, n)
	for x := 0; x < cfg.Rows; x++ {
		for y := 0; y < cfg.Cols; y++ {
			i := x*cfg.Cols + y
			window := x == 0 || y == 0 || x == cfg.Rows-1 || y == cfg.Cols-1
			seats = append(seats, NewSeat(Coord{X: x, Y: y}, lamps[i], sockets[i], window, cfg.HoldClock))
		}
	}
	return seats
}

// neighborIndex lists, for every seat, the indices of its up-to-8 neighbors.
func neighborIndex(rows, cols int) [][]int {
	out := make([][]int, rows*cols)
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			var ns []int
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= rows || ny >= cols {
						continue
					}
					ns = append(ns, nx*cols+ny)
				}
			}
			out[x*cols+y] = ns
		}
	}
	return out
}

// majorCounts splits n occupants: humanities and science get the floor of
// their share, engineering the remainder.
func majorCounts(n int, humanities, science float64) [3]int {
	h := int(float64(n) * humanities)
	s := int(float64(n) * science)
	e := n - h - s
	if e < 0 {
		e = 0
	}
	return [3]int{h, s, e}
}

var majorOrder = [3]Major{Humanities, Science, Engineering}
var diligenceOrder = [3]Diligence{Diligent, Average, Lazy}

// buildRoster assigns an archetype to every occupant id. Within each major a
// uniform draw per student decides diligence, and ids are handed out
// diligent first, then medium, then lazy.
func buildRoster(cfg Config, rng *PartitionedRNG) []Archetype {
	r := rng.ForSubsystem(SubsystemRoster)
	counts := majorCounts(cfg.Occupants, cfg.HumanitiesShare, cfg.ScienceShare)
	roster := make([]Archetype, 0, cfg.Occupants)
	for mi, major := range majorOrder {
		var perLevel [3]int
		for i := 0; i < counts[mi]; i++ {
			switch diligenceOf(r.Float64()) {
			case Diligent:
				perLevel[0]++
			case Average:
				perLevel[1]++
			default:
				perLevel[2]++
			}
		}
		for li, level := range diligenceOrder {
			a, _ := ArchetypeFor(major, level)
			for i := 0; i < perLevel[li]; i++ {
				roster = append(roster, a)
			}
		}
	}
	return roster
}
