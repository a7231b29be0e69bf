package mines

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Rand is the random source used for mine placement. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// safeDistance is the minimum Manhattan distance between the first opened
// cell and any mine.
const safeDistance = 4

// PlaceMines puts count mines inside the boundary ring, none closer than
// safeDistance to the anchor. Each mine starts from a random interior cell;
// rejected candidates are replaced by scanning right, then down, wrapping
// around the interior. The scan is biased towards scan order on dense
// boards.
func (e *Engine) PlaceMines(anchorX, anchorY, count int, r Rand) error {
	b := e.Board
	anchor := Point{anchorX, anchorY}
	eligible := func(x, y int) bool {
		return b.Cells[y*b.Width+x].Kind != Mine &&
			anchor.manhattan(Point{x, y}) >= safeDistance
	}

	room := 0
	for y := 1; y < b.Height-1; y++ {
		for x := 1; x < b.Width-1; x++ {
			if eligible(x, y) {
				room++
			}
		}
	}
	if room < count {
		return fmt.Errorf("%w: want %d, have %d", ErrNoRoomForMines, count, room)
	}

	for range count {
		x := 1 + r.IntN(b.Width-2)
		y := 1 + r.IntN(b.Height-2)
		for !eligible(x, y) {
			x++
			if x >= b.Width-1 {
				x = 1
				y++
				if y >= b.Height-1 {
					y = 1
				}
			}
		}
		b.Cells[y*b.Width+x].Kind = Mine
	}

	Log.WithFields(logrus.Fields{
		"width":  b.Width,
		"height": b.Height,
		"mines":  count,
		"anchor": anchor,
	}).Debug("placed mines")

	return nil
}

// ComputeNumbers turns every Empty cell with mined neighbours into a Number.
func (e *Engine) ComputeNumbers() {
	b := e.Board
	for i := range b.Cells {
		c := &b.Cells[i]
		if c.Kind == Mine {
			continue
		}
		n := 0
		for nb := range b.neighbors(c.X, c.Y) {
			if nb.Kind == Mine {
				n++
			}
		}
		c.Adjacent = n
		c.Kind = iif(n > 0, Number, Empty)
	}
}

// OpenBoundaryRing reveals the outermost ring so that every game starts
// with a visible frontier.
func (e *Engine) OpenBoundaryRing() {
	b := e.Board
	for i := range b.Cells {
		c := &b.Cells[i]
		if !b.OnBoundary(c.X, c.Y) {
			continue
		}
		if c.Kind == Empty {
			e.Flood(c.X, c.Y)
		} else {
			c.Revealed = true
		}
	}
}
