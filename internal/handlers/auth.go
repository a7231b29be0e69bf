package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
)

type PlayerService interface {
	Register(ctx context.Context, username, password string) (*repository.Player, error)
	Login(ctx context.Context, username, password string) (*repository.Player, error)
}

type Auth struct {
	logger  *logrus.Logger
	players PlayerService
	cookies *config.Cookies
	jwt     *config.JWT
}

func NewAuth(
	logger *logrus.Logger,
	players PlayerService,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		logger:  logger,
		players: players,
		cookies: cookies,
		jwt:     jwt,
	}
}

type PlayerInfo struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

func (a Auth) signIn(w http.ResponseWriter, player *repository.Player) {
	claims := config.NewPlayerClaims(player.PlayerID, player.Username, a.jwt.Lifetime())
	if err := a.cookies.Refresh(w, claims); err != nil {
		sendErrorOrLog(w, a.logger, err)
		return
	}
	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerID, player.Username},
	})
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendStatusJSONOrLog(w, a.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	player, err := a.players.Register(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		sendErrorOrLog(w, a.logger, err)
		return
	}

	a.signIn(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendStatusJSONOrLog(w, a.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	player, err := a.players.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		sendErrorOrLog(w, a.logger, err)
		return
	}

	a.signIn(w, player)
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.logger, &Status{LoggedIn: false})
}

// Status reports the current player and extends the session cookies.
func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, &Status{LoggedIn: false})
		return
	}

	if err := a.cookies.Refresh(w, claims); err != nil {
		sendErrorOrLog(w, a.logger, err)
		return
	}
	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerID, claims.Username},
	})
}
