package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
	"github.com/vancomm/minefield/internal/service"
)

var (
	ErrBadSessionID = errors.New("malformed game session id")

	errInternal = errors.New(http.StatusText(http.StatusInternalServerError))
)

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, v any) {
	sendStatusJSONOrLog(w, logger, http.StatusOK, v)
}

func sendStatusJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, status int, v any) {
	if _, err := SendJSON(w, status, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.WithError(err).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var configErr *mines.ConfigError
	switch {
	case errors.As(err, &configErr),
		errors.Is(err, ErrBadSessionID),
		errors.Is(err, ErrUnknownPreset),
		errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, service.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrWrongCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mines.ErrNoRoomForMines),
		errors.Is(err, mines.ErrGameOver),
		errors.Is(err, mines.ErrAwaitingFirstMove),
		errors.Is(err, repository.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sendErrorOrLog answers with {"error": ...}. Unexpected errors are logged
// and hidden from the client.
func sendErrorOrLog(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
		err = errInternal
	}
	sendStatusJSONOrLog(w, logger, status, wrapError(err))
}

func parseSessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrBadSessionID
	}
	return id, nil
}
