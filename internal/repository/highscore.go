package repository

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minefield/internal/mines"
)

const DefaultHighscoreLimit = 100

type Highscore struct {
	GameSessionID uuid.UUID `json:"game_session_id" db:"game_session_id"`
	Username      *string   `json:"username" db:"username"`
	Width         int       `json:"width" db:"width"`
	Height        int       `json:"height" db:"height"`
	MineCount     int       `json:"mine_count" db:"mine_count"`
	PlaytimeMs    int64     `json:"playtime_ms" db:"playtime_ms"`
	EndedAt       time.Time `json:"ended_at" db:"ended_at"`
}

type HighscoreFilter struct {
	Username *string
	Params   *mines.GameParams
	Limit    int
}

func (f HighscoreFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultHighscoreLimit
	}
	return f.Limit
}

func (f HighscoreFilter) match(h Highscore) bool {
	if f.Username != nil && (h.Username == nil || *h.Username != *f.Username) {
		return false
	}
	if f.Params != nil && (mines.GameParams{Width: h.Width, Height: h.Height, MineCount: h.MineCount}) != *f.Params {
		return false
	}
	return true
}

func sortHighscores(hs []Highscore) {
	slices.SortStableFunc(hs, func(a, b Highscore) int {
		return cmp.Or(
			cmp.Compare(a.PlaytimeMs, b.PlaytimeMs),
			a.EndedAt.Compare(b.EndedAt),
		)
	})
}
