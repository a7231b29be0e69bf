package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

var ErrForbidden = errors.New("game session belongs to another player")

// Games runs every load, mutate, save cycle under one lock, so concurrent
// requests never interleave on a session and the random source is never
// shared between goroutines.
type Games struct {
	mu     sync.Mutex
	store  repository.Store
	rand   mines.Rand
	limits config.GameLimits
	logger *logrus.Logger
	now    func() time.Time
}

func NewGames(
	store repository.Store,
	rand mines.Rand,
	limits config.GameLimits,
	logger *logrus.Logger,
) *Games {
	return &Games{
		store:  store,
		rand:   rand,
		limits: limits,
		logger: logger,
		now:    time.Now,
	}
}

func (g *Games) checkLimits(params mines.GameParams) error {
	if params.Width > g.limits.MaxWidth || params.Height > g.limits.MaxHeight {
		return &mines.ConfigError{
			Params: params,
			Reason: fmt.Sprintf("board must not exceed %dx%d", g.limits.MaxWidth, g.limits.MaxHeight),
		}
	}
	return nil
}

func (g *Games) NewGame(
	ctx context.Context, params mines.GameParams, owner *int64,
) (*repository.GameSession, error) {
	if err := g.checkLimits(params); err != nil {
		return nil, err
	}
	state, err := mines.NewGame(params)
	if err != nil {
		return nil, err
	}

	session := repository.NewGameSession(state, owner, g.now())
	if err := g.store.CreateGameSession(ctx, session); err != nil {
		return nil, fmt.Errorf("unable to create game session: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"game_session_id": session.GameSessionID,
		"params":          params.String(),
		"anonymous":       owner == nil,
	}).Debug("created game session")

	return session, nil
}

func (g *Games) load(
	ctx context.Context, id uuid.UUID, requester *int64,
) (*repository.GameSession, error) {
	session, err := g.store.FetchGameSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(requester) {
		return nil, ErrForbidden
	}
	return session, nil
}

func (g *Games) Fetch(
	ctx context.Context, id uuid.UUID, requester *int64,
) (*repository.GameSession, error) {
	return g.load(ctx, id, requester)
}

// mutate applies move to a stored session and saves it.
func (g *Games) mutate(
	ctx context.Context,
	id uuid.UUID,
	requester *int64,
	move func(s *repository.GameSession) error,
) (*repository.GameSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, err := g.load(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	return g.apply(ctx, session, move)
}

// apply runs move and saves the result; a failed move is not saved. Timing
// metadata follows the status: the first move stamps StartedAt and reaching
// Won or Lost stamps EndedAt. Callers hold g.mu.
func (g *Games) apply(
	ctx context.Context,
	session *repository.GameSession,
	move func(s *repository.GameSession) error,
) (*repository.GameSession, error) {
	before := session.Session.Status

	if err := move(session); err != nil {
		return nil, err
	}

	now := g.now().UTC()
	status := session.Session.Status
	if status != mines.AwaitingFirstMove && session.StartedAt == nil {
		session.StartedAt = &now
	}
	if status.Over() && session.EndedAt == nil {
		session.EndedAt = &now
	}

	if err := g.store.UpdateGameSession(ctx, session); err != nil {
		return nil, fmt.Errorf("unable to update game session: %w", err)
	}

	if status != before {
		g.logger.WithFields(logrus.Fields{
			"game_session_id": session.GameSessionID,
			"from":            before,
			"to":              status,
		}).Debug("game session status changed")
	}

	return session, nil
}

func (g *Games) RevealAt(
	ctx context.Context, id uuid.UUID, requester *int64, x, y int,
) (*repository.GameSession, error) {
	return g.mutate(ctx, id, requester, func(s *repository.GameSession) error {
		return s.Session.RevealAt(x, y, g.rand)
	})
}

func (g *Games) FlagAt(
	ctx context.Context, id uuid.UUID, requester *int64, x, y int,
) (*repository.GameSession, error) {
	return g.mutate(ctx, id, requester, func(s *repository.GameSession) error {
		return s.Session.FlagAt(x, y)
	})
}

// Restart resets an unfinished session in place, keeping its id and owner.
// A finished session is left as it is, so its result stays on the
// highscore table, and play continues in a new session with the same
// params and owner.
func (g *Games) Restart(
	ctx context.Context, id uuid.UUID, requester *int64,
) (*repository.GameSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, err := g.load(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if session.Session.Status.Over() {
		return g.NewGame(ctx, session.Session.Params, session.PlayerID)
	}
	return g.apply(ctx, session, func(s *repository.GameSession) error {
		s.Session.Restart()
		s.StartedAt, s.EndedAt = nil, nil
		return nil
	})
}

func (g *Games) Highscores(
	ctx context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	return g.store.Highscores(ctx, filter)
}
