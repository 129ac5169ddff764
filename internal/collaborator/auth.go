package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"

	"github.com/rs/zerolog"
)

// AuthManager holds the bearer token for the school-core API. The token is
// cached until shortly before expiry; concurrent refreshers double-check
// under the write lock.
type AuthManager struct {
	cfg       *config.Config
	client    *http.Client
	token     string
	expiresAt time.Time
	mu        sync.RWMutex
	log       zerolog.Logger
}

func NewAuthManager(cfg *config.Config) *AuthManager {
	return &AuthManager{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.With("collaborator_auth"),
	}
}

func (a *AuthManager) GetToken(ctx context.Context) (string, error) {
	a.mu.RLock()
	if a.token != "" && time.Now().Before(a.expiresAt.Add(-30*time.Second)) {
		token := a.token
		a.mu.RUnlock()
		return token, nil
	}
	a.mu.RUnlock()

	return a.refreshToken(ctx)
}

func (a *AuthManager) refreshToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Double check after acquiring write lock
	if a.token != "" && time.Now().Before(a.expiresAt.Add(-30*time.Second)) {
		return a.token, nil
	}

	a.log.Debug().Msg("Refreshing authentication token")

	sc := a.cfg.Collaborators.SchoolCore
	authData := map[string]string{
		"username": sc.Username,
		"password": sc.Password,
	}

	jsonData, err := json.Marshal(authData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth data: %w", err)
	}

	url := sc.BaseURL + sc.AuthEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth failed with status: %d", resp.StatusCode)
	}

	var tokenResp model.AuthTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}

	a.token = tokenResp.Token
	a.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	a.log.Debug().Time("expires_at", a.expiresAt).Msg("Token refreshed successfully")

	return a.token, nil
}
