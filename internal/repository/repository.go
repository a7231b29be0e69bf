package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username taken")
)

// Store persists game sessions and player accounts.
type Store interface {
	CreateGameSession(ctx context.Context, session *GameSession) error
	FetchGameSession(ctx context.Context, id uuid.UUID) (*GameSession, error)
	UpdateGameSession(ctx context.Context, session *GameSession) error
	Highscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error)

	CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error)
	FetchPlayer(ctx context.Context, username string) (*Player, error)

	Close() error
}
