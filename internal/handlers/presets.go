package handlers

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/mines"
)

type PresetsDTO struct {
	Presets   []mines.Preset `json:"presets"`
	MaxWidth  int            `json:"max_width"`
	MaxHeight int            `json:"max_height"`
	// Set when the query names a width and height. First clicks on boards
	// with more than SafeMaxMines mines may fail with 409.
	SuggestedMaxMines *int `json:"suggested_max_mines,omitempty"`
	SafeMaxMines      *int `json:"safe_max_mines,omitempty"`
}

type SizeDTO struct {
	Width  int `schema:"width,required"`
	Height int `schema:"height,required"`
}

func Presets(logger *logrus.Logger, limits config.GameLimits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto := PresetsDTO{
			Presets:   mines.Presets,
			MaxWidth:  limits.MaxWidth,
			MaxHeight: limits.MaxHeight,
		}

		query := r.URL.Query()
		if query.Has("width") || query.Has("height") {
			var size SizeDTO
			if err := decoder.Decode(&size, query); err != nil {
				sendStatusJSONOrLog(w, logger, http.StatusBadRequest, wrapError(err))
				return
			}
			if size.Width > limits.MaxWidth || size.Height > limits.MaxHeight {
				sendStatusJSONOrLog(w, logger, http.StatusBadRequest, wrapError(fmt.Errorf(
					"board must not exceed %dx%d", limits.MaxWidth, limits.MaxHeight,
				)))
				return
			}
			params := mines.GameParams{Width: size.Width, Height: size.Height}
			suggested, safe := mines.SuggestedMaxMines(size.Width, size.Height), params.SafeMaxMines()
			dto.SuggestedMaxMines = &suggested
			dto.SafeMaxMines = &safe
		}

		sendJSONOrLog(w, logger, dto)
	}
}
