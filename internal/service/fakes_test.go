package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/micropass/micropass-go/internal/adapter"
	"github.com/micropass/micropass-go/internal/store"
	"github.com/micropass/micropass-go/models"
)

// memoryServer is an in-process stand-in for the MicroPass API, faithful
// enough for the service tests: one account, bearer-token checks, and a
// cipher table with a logical clock driving the delta sets.
type memoryServer struct {
	mu sync.Mutex

	email      string
	password   string // final password hash, as the real server stores it
	hint       string
	wrappedKey string

	accessToken  string
	refreshToken string
	tokenSerial  int

	clock   int64
	ciphers map[string]models.EncryptedCipher
	deleted map[string]int64

	// insertedData records every ciphertext received by InsertCipher, in
	// order, so tests can inspect exactly what crossed the wire.
	insertedData []string
}

func newMemoryServer() *memoryServer {
	return &memoryServer{
		// Anchored to real time so the clock compares against checkpoints
		// taken with time.Now. Every mutation advances it by one second.
		clock:   time.Now().Unix(),
		ciphers: map[string]models.EncryptedCipher{},
		deleted: map[string]int64{},
	}
}

func (m *memoryServer) tick() int64 {
	m.clock++
	return m.clock
}

func (m *memoryServer) checkToken(token string) error {
	if token == "" || token != m.accessToken {
		return &adapter.APIError{Status: http.StatusUnauthorized, Code: "invalid_token"}
	}
	return nil
}

func (m *memoryServer) Register(_ context.Context, req models.RegisterRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.email = req.Email
	m.password = req.Password
	m.hint = req.PasswordHint
	m.wrappedKey = req.EncryptionKey
	return nil
}

func (m *memoryServer) Token(_ context.Context, req models.TokenRequest) (models.TokenResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch req.GrantType {
	case models.GrantPassword:
		if req.Email != m.email || req.Password != m.password {
			return models.TokenResponse{}, &adapter.APIError{
				Status:      http.StatusBadRequest,
				Code:        "invalid_grant",
				Description: "Invalid credentials",
			}
		}
		m.tokenSerial++
		m.accessToken = "access-" + uuid.NewString()
		m.refreshToken = "refresh-" + uuid.NewString()
		return models.TokenResponse{AccessToken: m.accessToken, RefreshToken: m.refreshToken}, nil

	case models.GrantRefreshToken:
		if req.RefreshToken == "" || req.RefreshToken != m.refreshToken {
			return models.TokenResponse{}, &adapter.APIError{
				Status: http.StatusBadRequest,
				Code:   "invalid_grant",
			}
		}
		m.tokenSerial++
		m.accessToken = "access-" + uuid.NewString()
		return models.TokenResponse{AccessToken: m.accessToken}, nil

	default:
		return models.TokenResponse{}, &adapter.APIError{Status: http.StatusBadRequest, Code: "unsupported_grant_type"}
	}
}

func (m *memoryServer) Whoami(_ context.Context, token string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return models.User{}, err
	}
	return models.User{ID: "user-1", Email: m.email}, nil
}

func (m *memoryServer) EncryptionKey(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return "", err
	}
	return m.wrappedKey, nil
}

func (m *memoryServer) InsertCipher(_ context.Context, token string, req models.InsertRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return "", err
	}

	now := m.tick()
	id := uuid.NewString()
	m.ciphers[id] = models.EncryptedCipher{
		ID:      id,
		Data:    req.Data,
		Created: now,
		Updated: now,
	}
	m.insertedData = append(m.insertedData, req.Data)
	return id, nil
}

func (m *memoryServer) GetCipher(_ context.Context, token, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return nil, err
	}

	cipher, ok := m.ciphers[id]
	if !ok {
		return nil, &adapter.APIError{Status: http.StatusNotFound, Code: "cipher_not_found"}
	}
	return json.Marshal(cipher)
}

func (m *memoryServer) UpdateCipher(_ context.Context, token string, req models.UpdateRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return err
	}

	cipher, ok := m.ciphers[req.ID]
	if !ok {
		return &adapter.APIError{Status: http.StatusNotFound, Code: "cipher_not_found"}
	}
	cipher.Data = req.Data
	cipher.Updated = m.tick()
	m.ciphers[req.ID] = cipher
	return nil
}

func (m *memoryServer) DeleteCipher(_ context.Context, token, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return err
	}

	if _, ok := m.ciphers[id]; !ok {
		return &adapter.APIError{Status: http.StatusNotFound, Code: "cipher_not_found"}
	}
	delete(m.ciphers, id)
	m.deleted[id] = m.tick()
	return nil
}

func (m *memoryServer) ListCiphers(_ context.Context, token string, lastSync *int64) (models.SyncResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkToken(token); err != nil {
		return models.SyncResponse{}, err
	}

	var resp models.SyncResponse
	if lastSync == nil {
		for id := range m.ciphers {
			resp.Updated = append(resp.Updated, id)
		}
		return resp, nil
	}

	for id, cipher := range m.ciphers {
		if cipher.Updated > *lastSync {
			resp.Updated = append(resp.Updated, id)
		}
	}
	for id, at := range m.deleted {
		if at > *lastSync {
			resp.Deleted = append(resp.Deleted, id)
		}
	}
	return resp, nil
}

var _ adapter.ServerAdapter = (*memoryServer)(nil)

// fakeCache is a map-backed CipherCache for the sync tests.
type fakeCache struct {
	mu         sync.Mutex
	ciphers    map[string]models.EncryptedCipher
	checkpoint int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{ciphers: map[string]models.EncryptedCipher{}}
}

func (f *fakeCache) Upsert(_ context.Context, cipher models.EncryptedCipher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ciphers[cipher.ID] = cipher
	return nil
}

func (f *fakeCache) Get(_ context.Context, id string) (models.EncryptedCipher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cipher, ok := f.ciphers[id]
	if !ok {
		return models.EncryptedCipher{}, store.ErrCacheMiss
	}
	return cipher, nil
}

func (f *fakeCache) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ciphers, id)
	return nil
}

func (f *fakeCache) List(_ context.Context) ([]models.EncryptedCipher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.EncryptedCipher, 0, len(f.ciphers))
	for _, c := range f.ciphers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCache) Checkpoint(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkpoint, nil
}

func (f *fakeCache) SetCheckpoint(_ context.Context, lastSync int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkpoint = lastSync
	return nil
}

func (f *fakeCache) Close() error { return nil }

var _ store.CipherCache = (*fakeCache)(nil)
