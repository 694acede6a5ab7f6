package service

import (
	"context"
	"fmt"

	"github.com/micropass/micropass-go/internal/adapter"
	"github.com/micropass/micropass-go/internal/crypto"
	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/models"
)

type identityService struct {
	adapter  adapter.ServerAdapter
	keyChain crypto.KeyChain
	log      *logger.Logger
}

// NewIdentityService constructs an [IdentityService].
func NewIdentityService(serverAdapter adapter.ServerAdapter, keyChain crypto.KeyChain, log *logger.Logger) IdentityService {
	return &identityService{adapter: serverAdapter, keyChain: keyChain, log: log}
}

// Register implements [IdentityService]. This is the only path that ever
// calls GenerateEncryptionKey: generating a second vault key for an
// existing account would orphan everything encrypted under the first.
func (s *identityService) Register(ctx context.Context, email, password, passwordHint string) error {
	hashes, err := s.keyChain.DeriveAuthHash(email, password)
	if err != nil {
		return fmt.Errorf("derive auth hash: %w", err)
	}

	generated, err := s.keyChain.GenerateEncryptionKey(hashes.Base)
	if err != nil {
		return fmt.Errorf("generate encryption key: %w", err)
	}

	err = s.adapter.Register(ctx, models.RegisterRequest{
		Email:         email,
		Password:      hashes.Final,
		PasswordHint:  passwordHint,
		EncryptionKey: generated.Wrapped,
	})
	if err != nil {
		return fmt.Errorf("register account: %w", err)
	}

	s.log.Info().Str("email", email).Msg("account registered")
	return nil
}

// Login implements [IdentityService].
func (s *identityService) Login(ctx context.Context, email, password string) (Session, error) {
	hashes, err := s.keyChain.DeriveAuthHash(email, password)
	if err != nil {
		return Session{}, fmt.Errorf("derive auth hash: %w", err)
	}

	tokens, err := s.adapter.Token(ctx, models.TokenRequest{
		GrantType: models.GrantPassword,
		Email:     email,
		Password:  hashes.Final,
	})
	if err != nil {
		return Session{}, fmt.Errorf("password grant: %w", err)
	}

	s.log.Info().Str("email", email).Msg("logged in")
	return NewAuthenticatedSession(tokens.AccessToken, tokens.RefreshToken), nil
}

// Refresh implements [IdentityService].
func (s *identityService) Refresh(ctx context.Context, session Session) (Session, error) {
	if session.State() < Authenticated {
		return Session{}, ErrNotAuthenticated
	}

	tokens, err := s.adapter.Token(ctx, models.TokenRequest{
		GrantType:    models.GrantRefreshToken,
		RefreshToken: session.RefreshToken(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("refresh grant: %w", err)
	}

	s.log.Debug().Msg("access token refreshed")
	return session.WithAccessToken(tokens.AccessToken), nil
}
