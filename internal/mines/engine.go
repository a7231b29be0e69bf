package mines

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Status uint8

const (
	AwaitingFirstMove Status = iota
	InProgress
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case AwaitingFirstMove:
		return "awaiting_first_move"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{AwaitingFirstMove, InProgress, Won, Lost} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

func (s Status) Over() bool {
	return s == Won || s == Lost
}

// Engine holds a board together with the rules that mutate it.
type Engine struct {
	Board     *Board
	MineCount int
	Flagged   int
	Status    Status
}

func NewEngine(width, height, mineCount int) *Engine {
	return &Engine{
		Board:     GenerateCells(width, height),
		MineCount: mineCount,
		Status:    AwaitingFirstMove,
	}
}

// Start lays the mines out around the first opened cell and opens the
// boundary ring.
func (e *Engine) Start(anchorX, anchorY int, r Rand) error {
	if e.Status != AwaitingFirstMove {
		return nil
	}
	if err := e.PlaceMines(anchorX, anchorY, e.MineCount, r); err != nil {
		return err
	}
	e.ComputeNumbers()
	e.Status = InProgress
	e.OpenBoundaryRing()
	return nil
}

func (e *Engine) MinesRemaining() int {
	return e.MineCount - e.Flagged
}

// Reveal opens the cell at x, y. Opening an already revealed Number cell
// chords it. Positions off the board and flagged cells are ignored.
func (e *Engine) Reveal(x, y int) {
	if e.Status != InProgress {
		return
	}
	c := e.Board.cell(x, y)
	if c == nil || c.Flagged {
		return
	}

	switch c.Kind {
	case Mine:
		e.Explode(x, y)
	case Empty:
		e.Flood(x, y)
	case Number:
		if c.Revealed {
			e.chord(c)
		} else {
			c.Revealed = true
		}
	}

	e.EvaluateWin()
}

func (e *Engine) chord(c *Cell) {
	flags := 0
	for nb := range e.Board.neighbors(c.X, c.Y) {
		if nb.Flagged {
			flags++
		}
	}
	if flags != c.Adjacent {
		return
	}

	for nb := range e.Board.neighbors(c.X, c.Y) {
		if nb.Flagged || nb.Revealed {
			continue
		}
		switch nb.Kind {
		case Mine:
			e.Explode(nb.X, nb.Y)
			return
		case Empty:
			e.Flood(nb.X, nb.Y)
		default:
			nb.Revealed = true
		}
	}
}

// Flood reveals the connected region of Empty cells around x, y together
// with its Number border.
func (e *Engine) Flood(x, y int) {
	stack := []Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := e.Board.cell(p.X, p.Y)
		if c == nil || c.Revealed || c.Kind == Mine {
			continue
		}
		c.Revealed = true

		if c.Kind == Empty {
			for nb := range e.Board.neighbors(c.X, c.Y) {
				if !nb.Revealed && nb.Kind != Mine {
					stack = append(stack, nb.Point)
				}
			}
		}
	}
}

// Explode ends the game on the mine at x, y and uncovers every other mine.
func (e *Engine) Explode(x, y int) {
	c := e.Board.cell(x, y)
	if c == nil {
		return
	}
	c.Revealed = true
	c.Exploded = true

	for i := range e.Board.Cells {
		if e.Board.Cells[i].Kind == Mine {
			e.Board.Cells[i].Revealed = true
		}
	}
	e.Status = Lost

	Log.WithField("at", c.Point).Debug("mine exploded")
}

// EvaluateWin marks the game as won once every safe cell is revealed.
func (e *Engine) EvaluateWin() {
	if e.Status != InProgress {
		return
	}
	for _, c := range e.Board.Cells {
		if c.Kind != Mine && !c.Revealed {
			return
		}
	}

	for i := range e.Board.Cells {
		if e.Board.Cells[i].Kind == Mine {
			e.Board.Cells[i].Flagged = true
		}
	}
	e.Flagged = e.MineCount
	e.Status = Won
}

// ToggleFlag flips the flag on a covered cell and reports whether anything
// changed.
func (e *Engine) ToggleFlag(x, y int) bool {
	c := e.Board.cell(x, y)
	if c == nil || c.Revealed {
		return false
	}
	c.Flagged = !c.Flagged
	e.Flagged += iif(c.Flagged, 1, -1)
	return true
}
