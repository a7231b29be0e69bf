package config

import (
	"fmt"
	"strings"
)

type App struct {
	Addr        string
	BasePath    string
	CorsOrigins []string
	Limits      GameLimits
}

// GameLimits caps custom boards so a single request cannot allocate an
// arbitrarily large grid.
type GameLimits struct {
	MaxWidth  int
	MaxHeight int
}

func NewApp() (*App, error) {
	port := envOr("APP_PORT", "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	basePath := strings.TrimRight(envOr("APP_BASE_PATH", ""), "/")

	maxWidth, err := envInt("GAME_MAX_WIDTH", 100)
	if err != nil {
		return nil, err
	}
	maxHeight, err := envInt("GAME_MAX_HEIGHT", 100)
	if err != nil {
		return nil, err
	}
	if maxWidth < 1 || maxHeight < 1 {
		return nil, fmt.Errorf("game limits must be positive, got %dx%d", maxWidth, maxHeight)
	}

	app := &App{
		Addr:        port,
		BasePath:    basePath,
		CorsOrigins: envList("CORS_ALLOWED_ORIGINS"),
		Limits:      GameLimits{MaxWidth: maxWidth, MaxHeight: maxHeight},
	}

	return app, nil
}
