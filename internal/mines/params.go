package mines

import (
	"fmt"
	"math"
	"strings"
)

type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

var (
	Beginner     = GameParams{Width: 9, Height: 9, MineCount: 10}
	Intermediate = GameParams{Width: 16, Height: 16, MineCount: 40}
	Expert       = GameParams{Width: 30, Height: 16, MineCount: 99}
)

type Preset struct {
	Name string `json:"name"`
	GameParams
}

var Presets = []Preset{
	{"beginner", Beginner},
	{"intermediate", Intermediate},
	{"expert", Expert},
}

func LookupPreset(name string) (GameParams, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p.GameParams, true
		}
	}
	return GameParams{}, false
}

func (p GameParams) Unpack() (width, height, mineCount int) {
	return p.Width, p.Height, p.MineCount
}

// InteriorCells is the number of cells off the boundary ring, the only
// cells mines may occupy.
func (p GameParams) InteriorCells() int {
	return max(0, p.Width-2) * max(0, p.Height-2)
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

// Validate returns a [*ConfigError] if no board can be generated from p.
func (p GameParams) Validate() error {
	switch {
	case p.Width < 1 || p.Height < 1:
		return &ConfigError{p, "width and height must be at least 1"}
	case p.MineCount < 0:
		return &ConfigError{p, "mine count must not be negative"}
	case p.MineCount >= p.Width*p.Height:
		return &ConfigError{p, "mine count must be less than the number of cells"}
	case p.MineCount > 0 && p.MineCount >= p.InteriorCells():
		return &ConfigError{p, fmt.Sprintf(
			"mine count must be less than the %d cells inside the border",
			p.InteriorCells(),
		)}
	}
	return nil
}

// SuggestedMaxMines is the upper bound offered for custom boards, never
// more than Validate accepts.
func SuggestedMaxMines(width, height int) int {
	if width < 1 || height < 1 {
		return 0
	}
	p := GameParams{Width: width, Height: height}
	suggested := int(math.Floor(float64(width*height) / 5.7))
	return max(0, min(suggested, p.InteriorCells()-1))
}

// SafeMaxMines is the largest mine count for which every in-board first
// click has room for the mines; above it some first clicks fail with
// ErrNoRoomForMines.
func (p GameParams) SafeMaxMines() int {
	crowded := 0
	for ay := range p.Height {
		for ax := range p.Width {
			n := 0
			for dy := 1 - safeDistance; dy < safeDistance; dy++ {
				for dx := 1 - safeDistance; dx < safeDistance; dx++ {
					x, y := ax+dx, ay+dy
					if absDiff(dx, 0)+absDiff(dy, 0) < safeDistance &&
						x >= 1 && x < p.Width-1 && y >= 1 && y < p.Height-1 {
						n++
					}
				}
			}
			crowded = max(crowded, n)
		}
	}
	return p.InteriorCells() - crowded
}

// String formats p as a seed, e.g. "9x9:10".
func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	var p GameParams
	n, err := fmt.Sscanf(seed, "%dx%d:%d", &p.Width, &p.Height, &p.MineCount)
	if err != nil || n != 3 {
		return nil, fmt.Errorf("malformed seed %q, want WIDTHxHEIGHT:MINES", seed)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
