package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")

	decoder = newDecoder()
)

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

// ParseGameParams reads ?preset=NAME, ?seed=WxH:M or explicit
// width, height and mine_count, in that order of preference.
func ParseGameParams(query url.Values) (mines.GameParams, error) {
	if name := query.Get("preset"); name != "" {
		params, ok := mines.LookupPreset(name)
		if !ok {
			return mines.GameParams{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
		}
		return params, nil
	}
	if seed := query.Get("seed"); seed != "" {
		params, err := mines.ParseSeed(seed)
		if err != nil {
			return mines.GameParams{}, err
		}
		return *params, nil
	}
	var dto NewGameDTO
	if err := decoder.Decode(&dto, query); err != nil {
		return mines.GameParams{}, err
	}
	return mines.GameParams(dto), nil
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(query url.Values) (PositionDTO, error) {
	var dto PositionDTO
	err := decoder.Decode(&dto, query)
	return dto, err
}

// hiddenKind is what a covered cell looks like to a player while the game
// is in progress.
const hiddenKind = "hidden"

type CellDTO struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Kind     string `json:"kind"`
	Adjacent int    `json:"adjacent,omitempty"`
	Revealed bool   `json:"revealed"`
	Flagged  bool   `json:"flagged"`
	Exploded bool   `json:"exploded,omitempty"`
}

type GameSessionDTO struct {
	GameSessionID  string       `json:"game_session_id"`
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	MineCount      int          `json:"mine_count"`
	Status         mines.Status `json:"status"`
	MinesRemaining int          `json:"mines_remaining"`
	Cells          []CellDTO    `json:"cells"`
	CreatedAt      int64        `json:"created_at"`
	StartedAt      *int64       `json:"started_at,omitempty"`
	EndedAt        *int64       `json:"ended_at,omitempty"`
	PlaytimeMs     *int64       `json:"playtime_ms,omitempty"`
}

// NewGameSessionDTO hides every covered cell until the game is over; after
// that the whole board is shown.
func NewGameSessionDTO(s *repository.GameSession) *GameSessionDTO {
	snap := s.Session.Snapshot()
	over := snap.Status.Over()

	cells := make([]CellDTO, len(snap.Cells))
	for i, c := range snap.Cells {
		cell := CellDTO{
			X:        c.X,
			Y:        c.Y,
			Kind:     c.Kind.String(),
			Adjacent: c.Adjacent,
			Revealed: c.Revealed,
			Flagged:  c.Flagged,
			Exploded: c.Exploded,
		}
		if !over && !c.Revealed {
			cell.Kind = hiddenKind
			cell.Adjacent = 0
		}
		cells[i] = cell
	}

	dto := &GameSessionDTO{
		GameSessionID:  s.GameSessionID.String(),
		Width:          snap.Width,
		Height:         snap.Height,
		MineCount:      snap.MineCount,
		Status:         snap.Status,
		MinesRemaining: snap.MinesRemaining,
		Cells:          cells,
		CreatedAt:      s.CreatedAt.UnixMilli(),
	}
	if s.StartedAt != nil {
		ms := s.StartedAt.UnixMilli()
		dto.StartedAt = &ms
	}
	if s.EndedAt != nil {
		ms := s.EndedAt.UnixMilli()
		dto.EndedAt = &ms
	}
	if d, ok := s.Playtime(); ok {
		ms := d.Milliseconds()
		dto.PlaytimeMs = &ms
	}
	return dto
}
