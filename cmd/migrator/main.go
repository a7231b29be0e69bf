package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/database"
)

var down bool

func init() {
	flag.BoolVar(&down, "down", false, "roll back every migration instead of applying them")
}

func main() {
	flag.Parse()

	log := logrus.New()
	if err := config.LoadDotenv(); err != nil {
		log.Warn("unable to load .env: ", err)
	}
	if config.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	url, err := config.DatabaseURL()
	if err != nil {
		log.Fatal("unable to configure database: ", err)
	}

	migrator, err := database.NewMigrator(url)
	if err != nil {
		log.Fatal(err)
	}
	defer migrator.Close()

	run := migrator.Up
	if down {
		run = migrator.Down
	}
	if err := run(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("migration failed: ", err)
		os.Exit(1)
	}

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("database has no migrations applied")
		return
	}
	if err != nil {
		log.Fatal("failed to check migration version: ", err)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
