package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/app"
	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/database"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

var log = logrus.New()

func openStore(ctx context.Context, cfg *config.Store) (repository.Store, error) {
	switch cfg.Driver {
	case config.StorePostgres:
		pool, migrator, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		if version, _, err := migrator.Version(); err == nil {
			log.WithField("version", version).Info("database schema is up to date")
		}
		migrator.Close()
		return repository.NewPostgres(pool), nil
	case config.StoreSQLite:
		return repository.OpenSQLite(cfg.SQLitePath)
	default:
		return repository.NewMemory(), nil
	}
}

// loadJWT falls back to a random per-process secret in development, which
// logs everyone out on restart.
func loadJWT() (*config.JWT, error) {
	j, err := config.NewJWT()
	if err == nil || !config.Development() {
		return j, err
	}
	log.WithError(err).Warn("no JWT keys configured, using a random secret")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return config.NewHMACJWT(secret, time.Hour*24*30), nil
}

func main() {
	if err := config.LoadDotenv(); err != nil {
		log.Warn("unable to load .env: ", err)
	}

	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	logging, err := config.NewLogging()
	if err != nil {
		log.Fatal(err)
	}
	if log, err = logging.NewLogger(); err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}
	mines.Log = log

	appConfig, err := config.NewApp()
	if err != nil {
		log.Fatal(err)
	}
	storeConfig, err := config.NewStore()
	if err != nil {
		log.Fatal(err)
	}
	jwt, err := loadJWT()
	if err != nil {
		log.Fatal("unable to load JWT keys: ", err)
	}

	store, err := openStore(mainCtx, storeConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	log.WithFields(logrus.Fields{
		"development": config.Development(),
		"store":       storeConfig.Driver,
		"base_path":   appConfig.BasePath,
		"max_width":   appConfig.Limits.MaxWidth,
		"max_height":  appConfig.Limits.MaxHeight,
	}).Info("starting up")

	a := app.New(log, appConfig, store, jwt, config.NewWebSocket())

	server := &http.Server{
		Addr:              appConfig.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", appConfig.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("exit reason: %s", err)
	}
}
