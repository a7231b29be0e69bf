package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
	"github.com/vancomm/minefield/internal/service"
)

type App struct {
	logger  *logrus.Logger
	config  *config.App
	router  *http.ServeMux
	store   repository.Store
	games   *service.Games
	players *service.Players
	jwt     *config.JWT
	cookies *config.Cookies
	ws      *config.WebSocket
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

type Option func(*App)

// WithRand replaces the seeded random source used for mine placement.
func WithRand(r *rand.Rand) Option {
	return func(a *App) {
		a.games = service.NewGames(a.store, r, a.config.Limits, a.logger)
	}
}

func New(
	logger *logrus.Logger,
	cfg *config.App,
	store repository.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	opts ...Option,
) *App {
	app := &App{
		logger:  logger,
		config:  cfg,
		router:  http.NewServeMux(),
		store:   store,
		games:   service.NewGames(store, createRand(), cfg.Limits, logger),
		players: service.NewPlayers(store, logger),
		jwt:     jwt,
		cookies: config.NewCookies(jwt),
		ws:      ws,
	}
	for _, opt := range opts {
		opt(app)
	}

	app.loadRoutes()

	return app
}

// Handler is the router behind the middleware chain, mounted at the
// configured base path.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if a.config.BasePath != "" {
		h = http.StripPrefix(a.config.BasePath, h)
	}
	return middleware.Wrap(
		h,
		middleware.Auth(a.logger, a.cookies),
		middleware.Cors(a.config.CorsOrigins),
		middleware.Logging(a.logger),
	)
}
