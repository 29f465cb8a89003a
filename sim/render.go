package sim

import "strings"

// StatusGrid renders seat statuses as rows of V/T/R/F letters.
func (l *Library) StatusGrid() string {
	return l.renderGrid(func(s *Seat) string { return s.status.Code() })
}

// AmenityGrid renders amenities as rows of B (both), L (lamp), S (socket)
// or N (none).
func (l *Library) AmenityGrid() string {
	return l.renderGrid((*Seat).amenityCode)
}

func (l *Library) renderGrid(cell func(*Seat) string) string {
	var b strings.Builder
	for x := 0; x < l.cfg.Rows; x++ {
		row := make([]string, l.cfg.Cols)
		for y := 0; y < l.cfg.Cols; y++ {
			row[y] = cell(l.seats[x*l.cfg.Cols+y])
		}
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
