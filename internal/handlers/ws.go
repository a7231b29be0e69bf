package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
)

type commandError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// Connect upgrades to a WebSocket that accepts newline separated commands:
//
//	g      // get the session
//	o x y  // open x:y
//	c x y  // chord x:y
//	f x y  // flag x:y
//	r      // restart
//
// Every message is answered with the session after its last command, or
// with the first failing command's line and error. Commands following a
// move that ends the game are dropped. Restarting a finished game moves
// the connection to the new session.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	requester := middleware.PlayerID(r.Context())

	session, err := g.games.Fetch(r.Context(), id, requester)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := g.logger.WithField("game_session_id", id)
	log.Debug("websocket connected")

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
				websocket.CloseUnsupportedData, "text messages only",
			))
			return
		}

		var reply any
		for i, line := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			var s *repository.GameSession
			c, err := parseCommand(line)
			if err == nil {
				s, err = g.executeCommand(r.Context(), id, requester, c)
			}
			if err != nil {
				if statusFor(err) == http.StatusInternalServerError {
					log.WithError(err).Error("command failed")
					err = errInternal
				}
				reply = commandError{Line: i, Error: err.Error()}
				break
			}
			session = s
			if session.GameSessionID != id {
				log.WithField("next_game_session_id", session.GameSessionID).Debug("following restarted session")
				id = session.GameSessionID
			}
			if session.Session.Status.Over() && c.name != "g" {
				break
			}
		}
		if reply == nil {
			reply = NewGameSessionDTO(session)
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
	}
}
