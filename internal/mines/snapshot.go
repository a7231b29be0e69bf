package mines

type CellView struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Kind     CellKind `json:"kind"`
	Adjacent int      `json:"adjacent"`
	Revealed bool     `json:"revealed"`
	Flagged  bool     `json:"flagged"`
	Exploded bool     `json:"exploded"`
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	MineCount      int        `json:"mine_count"`
	Status         Status     `json:"status"`
	MinesRemaining int        `json:"mines_remaining"`
	Cells          []CellView `json:"cells"`
}

func (s *Session) Snapshot() Snapshot {
	cells := make([]CellView, len(s.Board.Cells))
	for i, c := range s.Board.Cells {
		cells[i] = CellView{
			X:        c.X,
			Y:        c.Y,
			Kind:     c.Kind,
			Adjacent: c.Adjacent,
			Revealed: c.Revealed,
			Flagged:  c.Flagged,
			Exploded: c.Exploded,
		}
	}
	return Snapshot{
		Width:          s.Board.Width,
		Height:         s.Board.Height,
		MineCount:      s.MineCount,
		Status:         s.Status,
		MinesRemaining: s.MinesRemaining(),
		Cells:          cells,
	}
}

// At returns the view of x, y; ok is false off the board.
func (s Snapshot) At(x, y int) (v CellView, ok bool) {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return CellView{X: x, Y: y, Kind: Invalid}, false
	}
	return s.Cells[y*s.Width+x], true
}
