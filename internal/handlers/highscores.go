package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

type HighscoreService interface {
	Highscores(ctx context.Context, filter repository.HighscoreFilter) ([]repository.Highscore, error)
}

type HighscoresQuery struct {
	Params   string `schema:"params"`
	Username string `schema:"username"`
	Limit    int    `schema:"limit"`
}

// Highscores lists won sessions, fastest first. ?params=WxH:M narrows the
// list to one board, ?username= to one player.
func Highscores(logger *logrus.Logger, scores HighscoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query HighscoresQuery
		if err := decoder.Decode(&query, r.URL.Query()); err != nil {
			sendStatusJSONOrLog(w, logger, http.StatusBadRequest, wrapError(err))
			return
		}

		filter := repository.HighscoreFilter{
			Limit: min(query.Limit, repository.DefaultHighscoreLimit),
		}
		if query.Params != "" {
			params, err := mines.ParseSeed(query.Params)
			if err != nil {
				sendStatusJSONOrLog(w, logger, http.StatusBadRequest, wrapError(err))
				return
			}
			filter.Params = params
		}
		if query.Username != "" {
			filter.Username = &query.Username
		}

		highscores, err := scores.Highscores(r.Context(), filter)
		if err != nil {
			sendErrorOrLog(w, logger, err)
			return
		}

		sendJSONOrLog(w, logger, highscores)
	}
}

func Health(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSONOrLog(w, logger, map[string]string{"status": "ok"})
	}
}
