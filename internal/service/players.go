package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minefield/internal/repository"
)

var (
	ErrBadCredentials   = errors.New("username and password must not be empty")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
	ErrWrongCredentials = errors.New("wrong username or password")
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

type Players struct {
	store  repository.Store
	cost   int
	logger *logrus.Logger
}

func NewPlayers(store repository.Store, logger *logrus.Logger) *Players {
	return &Players{
		store:  store,
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return ErrBadCredentials
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (p *Players) Register(ctx context.Context, username, password string) (*repository.Player, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("unable to hash password: %w", err)
	}
	player, err := p.store.CreatePlayer(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	p.logger.WithField("username", username).Info("registered player")
	return player, nil
}

// Login never tells an unknown username apart from a wrong password.
func (p *Players) Login(ctx context.Context, username, password string) (*repository.Player, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	player, err := p.store.FetchPlayer(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWrongCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongCredentials
	}
	return player, nil
}
