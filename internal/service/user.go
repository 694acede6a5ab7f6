package service

import (
	"context"
	"fmt"

	"github.com/micropass/micropass-go/internal/adapter"
	"github.com/micropass/micropass-go/internal/crypto"
	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/models"
)

type userService struct {
	adapter  adapter.ServerAdapter
	keyChain crypto.KeyChain
	log      *logger.Logger
}

// NewUserService constructs a [UserService].
func NewUserService(serverAdapter adapter.ServerAdapter, keyChain crypto.KeyChain, log *logger.Logger) UserService {
	return &userService{adapter: serverAdapter, keyChain: keyChain, log: log}
}

// Whoami implements [UserService].
func (s *userService) Whoami(ctx context.Context, session Session) (models.User, error) {
	if session.State() < Authenticated {
		return models.User{}, ErrNotAuthenticated
	}

	user, err := s.adapter.Whoami(ctx, session.AccessToken().String())
	if err != nil {
		return models.User{}, fmt.Errorf("whoami: %w", err)
	}
	return user, nil
}

// Unlock implements [UserService]. The base hash is re-derived from the
// credentials because it is never persisted anywhere, not even in memory
// between calls.
func (s *userService) Unlock(ctx context.Context, session Session, email, password string) (Session, error) {
	if session.State() < Authenticated {
		return Session{}, ErrNotAuthenticated
	}

	wrapped, err := s.adapter.EncryptionKey(ctx, session.AccessToken().String())
	if err != nil {
		return Session{}, fmt.Errorf("fetch wrapped encryption key: %w", err)
	}

	hashes, err := s.keyChain.DeriveAuthHash(email, password)
	if err != nil {
		return Session{}, fmt.Errorf("derive auth hash: %w", err)
	}

	key, err := s.keyChain.UnwrapEncryptionKey(hashes.Base, wrapped)
	if err != nil {
		return Session{}, fmt.Errorf("unlock vault: %w", err)
	}

	s.log.Info().Msg("vault unlocked")
	return session.WithEncryptionKey(key), nil
}
