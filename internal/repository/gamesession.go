package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minefield/internal/mines"
)

type GameSession struct {
	GameSessionID uuid.UUID
	PlayerID      *int64
	Session       *mines.Session
	CreatedAt     time.Time
	StartedAt     *time.Time
	EndedAt       *time.Time
}

func NewGameSession(session *mines.Session, playerID *int64, now time.Time) *GameSession {
	return &GameSession{
		GameSessionID: uuid.New(),
		PlayerID:      playerID,
		Session:       session,
		CreatedAt:     now.UTC(),
	}
}

// Playtime is the time between the first move and the end of the game; ok
// is false while either is missing.
func (s *GameSession) Playtime() (d time.Duration, ok bool) {
	if s.StartedAt == nil || s.EndedAt == nil {
		return 0, false
	}
	return s.EndedAt.Sub(*s.StartedAt), true
}

// OwnedBy reports whether requester may act on the session. Anonymous
// sessions are open to everyone; owned ones only to their owner.
func (s *GameSession) OwnedBy(requester *int64) bool {
	if s.PlayerID == nil {
		return true
	}
	return requester != nil && *s.PlayerID == *requester
}

