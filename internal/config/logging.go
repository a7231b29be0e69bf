package config

import (
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Logging struct {
	Development bool
	File        string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

func NewLogging() (*Logging, error) {
	maxSize, err := envInt("LOG_FILE_MAX_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}
	maxBackups, err := envInt("LOG_FILE_MAX_BACKUPS", 3)
	if err != nil {
		return nil, err
	}
	maxAge, err := envInt("LOG_FILE_MAX_AGE_DAYS", 28)
	if err != nil {
		return nil, err
	}

	logging := &Logging{
		Development: Development(),
		File:        envOr("LOG_FILE", ""),
		MaxSizeMB:   maxSize,
		MaxBackups:  maxBackups,
		MaxAgeDays:  maxAge,
	}

	return logging, nil
}

// NewLogger builds the process logger. Development mode logs colored text at
// debug level; otherwise JSON at info level. A rotating file copy is added
// when LOG_FILE is set.
func (l Logging) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()

	level := logrus.InfoLevel
	if l.Development {
		level = logrus.DebugLevel
		logger.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(level)

	if l.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   l.File,
			MaxSize:    l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAge:     l.MaxAgeDays,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, err
		}
		logger.AddHook(hook)
	}

	return logger, nil
}
