package service

import (
	"context"
	"fmt"

	"github.com/micropass/micropass-go/internal/adapter"
	"github.com/micropass/micropass-go/internal/crypto"
	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/models"
)

type cipherService struct {
	adapter adapter.ServerAdapter
	codec   crypto.EnvelopeCodec
	session Session
	log     *logger.Logger
}

// NewCipherService constructs a [CipherService] bound to the given
// session. The session (and with it the encryption key) is fixed for the
// service's lifetime, which is what makes concurrent calls on one
// instance safe.
func NewCipherService(serverAdapter adapter.ServerAdapter, codec crypto.EnvelopeCodec, session Session, log *logger.Logger) CipherService {
	return &cipherService{adapter: serverAdapter, codec: codec, session: session, log: log}
}

// Insert implements [CipherService].
func (s *cipherService) Insert(ctx context.Context, data models.CipherData) (string, error) {
	if err := s.requireKey(); err != nil {
		return "", err
	}

	ct, err := s.codec.EncryptData(data, s.session.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("encrypt cipher for insert: %w", err)
	}

	id, err := s.adapter.InsertCipher(ctx, s.token(), models.InsertRequest{Data: ct})
	if err != nil {
		return "", fmt.Errorf("insert cipher: %w", err)
	}

	s.log.Debug().Str("id", id).Msg("cipher inserted")
	return id, nil
}

// Get implements [CipherService].
func (s *cipherService) Get(ctx context.Context, id string) (models.Cipher, error) {
	if err := s.requireKey(); err != nil {
		return models.Cipher{}, err
	}

	raw, err := s.adapter.GetCipher(ctx, s.token(), id)
	if err != nil {
		return models.Cipher{}, fmt.Errorf("get cipher %s: %w", id, err)
	}

	cipher, err := s.codec.ParseCipher(raw, s.session.encryptionKey)
	if err != nil {
		return models.Cipher{}, fmt.Errorf("decode cipher %s: %w", id, err)
	}
	return cipher, nil
}

// Update implements [CipherService]. The server treats an update as a
// whole-record replace under the same id.
func (s *cipherService) Update(ctx context.Context, id string, data models.CipherData) error {
	if err := s.requireKey(); err != nil {
		return err
	}

	ct, err := s.codec.EncryptData(data, s.session.encryptionKey)
	if err != nil {
		return fmt.Errorf("encrypt cipher for update: %w", err)
	}

	if err = s.adapter.UpdateCipher(ctx, s.token(), models.UpdateRequest{ID: id, Data: ct}); err != nil {
		return fmt.Errorf("update cipher %s: %w", id, err)
	}

	s.log.Debug().Str("id", id).Msg("cipher updated")
	return nil
}

// Delete implements [CipherService]. Works on a key-less session: the
// request never touches cipher content.
func (s *cipherService) Delete(ctx context.Context, id string) error {
	if s.session.State() < Authenticated {
		return ErrNotAuthenticated
	}

	if err := s.adapter.DeleteCipher(ctx, s.token(), id); err != nil {
		return fmt.Errorf("delete cipher %s: %w", id, err)
	}

	s.log.Debug().Str("id", id).Msg("cipher deleted")
	return nil
}

// List implements [CipherService].
func (s *cipherService) List(ctx context.Context, lastSync *int64) (models.SyncResponse, error) {
	if s.session.State() < Authenticated {
		return models.SyncResponse{}, ErrNotAuthenticated
	}

	resp, err := s.adapter.ListCiphers(ctx, s.token(), lastSync)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("list ciphers: %w", err)
	}
	return resp, nil
}

func (s *cipherService) requireKey() error {
	switch s.session.State() {
	case VaultUnlocked:
		return nil
	case Authenticated:
		return ErrMissingKey
	default:
		return ErrNotAuthenticated
	}
}

func (s *cipherService) token() string {
	return s.session.AccessToken().String()
}
