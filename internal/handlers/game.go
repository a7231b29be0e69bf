package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

type GameService interface {
	NewGame(ctx context.Context, params mines.GameParams, owner *int64) (*repository.GameSession, error)
	Fetch(ctx context.Context, id uuid.UUID, requester *int64) (*repository.GameSession, error)
	RevealAt(ctx context.Context, id uuid.UUID, requester *int64, x, y int) (*repository.GameSession, error)
	FlagAt(ctx context.Context, id uuid.UUID, requester *int64, x, y int) (*repository.GameSession, error)
	Restart(ctx context.Context, id uuid.UUID, requester *int64) (*repository.GameSession, error)
}

type GameHandler struct {
	logger *logrus.Logger
	games  GameService
	ws     *config.WebSocket
}

func NewGameHandler(
	logger *logrus.Logger,
	games GameService,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		games:  games,
		ws:     ws,
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseGameParams(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	session, err := g.games.NewGame(r.Context(), params, middleware.PlayerID(r.Context()))
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	session, err := g.games.Fetch(r.Context(), id, middleware.PlayerID(r.Context()))
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session))
}

type positionMove func(ctx context.Context, id uuid.UUID, requester *int64, x, y int) (*repository.GameSession, error)

func (g GameHandler) handlePositionMove(move positionMove) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseSessionID(r)
		if err != nil {
			sendErrorOrLog(w, g.logger, err)
			return
		}

		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
			return
		}

		session, err := move(r.Context(), id, middleware.PlayerID(r.Context()), pos.X, pos.Y)
		if err != nil {
			sendErrorOrLog(w, g.logger, err)
			return
		}

		sendJSONOrLog(w, g.logger, NewGameSessionDTO(session))
	}
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.handlePositionMove(g.games.RevealAt)(w, r)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.handlePositionMove(g.games.FlagAt)(w, r)
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	session, err := g.games.Restart(r.Context(), id, middleware.PlayerID(r.Context()))
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session))
}
