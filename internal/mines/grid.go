package mines

import (
	"fmt"
	"iter"
	"strings"
)

// Board is the width x height grid of cells stored row by row.
type Board struct {
	Width, Height int
	Cells         []Cell
}

// GenerateCells returns a fully populated board of covered, unflagged Empty
// cells.
func GenerateCells(width, height int) *Board {
	b := &Board{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	for y := range height {
		for x := range width {
			b.Cells[y*width+x] = Cell{Point: Point{x, y}, Kind: Empty}
		}
	}
	return b
}

func (b *Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.Width && 0 <= y && y < b.Height
}

func (b *Board) OnBoundary(x, y int) bool {
	return x == 0 || y == 0 || x == b.Width-1 || y == b.Height-1
}

// At returns a copy of the cell at x, y. Positions off the board yield an
// Invalid cell carrying the requested coordinates.
func (b *Board) At(x, y int) Cell {
	if c := b.cell(x, y); c != nil {
		return *c
	}
	return Cell{Point: Point{x, y}, Kind: Invalid}
}

func (b *Board) cell(x, y int) *Cell {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.Cells[y*b.Width+x]
}

// neighbors yields the in-bounds cells of the 8-neighbourhood of x, y.
func (b *Board) neighbors(x, y int) iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if c := b.cell(x+dx, y+dy); c != nil {
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

func (b *Board) Count(pred func(Cell) bool) int {
	n := 0
	for _, c := range b.Cells {
		if pred(c) {
			n++
		}
	}
	return n
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.Height {
		for x := range b.Width {
			fmt.Fprint(&sb, b.Cells[y*b.Width+x].String()+" ")
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
