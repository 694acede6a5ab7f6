package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/micropass/micropass-go/models"
)

// Config holds the network settings of the HTTP adapter.
type Config struct {
	// BaseURL is the MicroPass API root, e.g. "https://micropass-api.example.com".
	BaseURL string

	// Timeout bounds a single request; the caller's context can cancel
	// earlier.
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client
}

// NewHTTPServerAdapter constructs a [ServerAdapter] speaking JSON over
// HTTP via resty.
func NewHTTPServerAdapter(cfg Config) ServerAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli}
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/identity/register")
	if err != nil {
		return fmt.Errorf("register request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Token(ctx context.Context, req models.TokenRequest) (models.TokenResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/identity/token")
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenResponse{}, err
	}

	var out models.TokenResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) Whoami(ctx context.Context, token string) (models.User, error) {
	resp, err := h.authedRequest(ctx, token).Get("/user/whoami")
	if err != nil {
		return models.User{}, fmt.Errorf("whoami request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	var out models.User
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.User{}, fmt.Errorf("decode whoami response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) EncryptionKey(ctx context.Context, token string) (string, error) {
	resp, err := h.authedRequest(ctx, token).Get("/user/encryption_key")
	if err != nil {
		return "", fmt.Errorf("encryption key request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var out models.EncryptionKeyResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode encryption key response: %w", err)
	}
	return out.EncryptionKey, nil
}

func (h *httpServerAdapter) InsertCipher(ctx context.Context, token string, req models.InsertRequest) (string, error) {
	resp, err := h.authedRequest(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/ciphers/insert")
	if err != nil {
		return "", fmt.Errorf("insert cipher request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var out models.InsertResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode insert response: %w", err)
	}
	return out.ID, nil
}

func (h *httpServerAdapter) GetCipher(ctx context.Context, token, id string) ([]byte, error) {
	resp, err := h.authedRequest(ctx, token).Get("/ciphers/get/" + id)
	if err != nil {
		return nil, fmt.Errorf("get cipher request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (h *httpServerAdapter) UpdateCipher(ctx context.Context, token string, req models.UpdateRequest) error {
	resp, err := h.authedRequest(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Patch("/ciphers/update")
	if err != nil {
		return fmt.Errorf("update cipher request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) DeleteCipher(ctx context.Context, token, id string) error {
	resp, err := h.authedRequest(ctx, token).Delete("/ciphers/delete/" + id)
	if err != nil {
		return fmt.Errorf("delete cipher request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) ListCiphers(ctx context.Context, token string, lastSync *int64) (models.SyncResponse, error) {
	req := h.authedRequest(ctx, token)
	if lastSync != nil {
		req.SetQueryParam("lastSync", strconv.FormatInt(*lastSync, 10))
	}

	resp, err := req.Get("/ciphers/list")
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("list ciphers request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	var out models.SyncResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.SyncResponse{}, fmt.Errorf("decode list response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context, token string) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
