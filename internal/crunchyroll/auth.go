package crunchyroll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/models"
)

// TokenCache is the single process-wide credential slot for the provider.
// Reads and writes are guarded, but the slot is not held across a handshake:
// concurrent callers that both see an expired token will both log in, which
// is harmless since the handshake is idempotent.
type TokenCache struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func (tc *TokenCache) get() (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	if tc.token != "" && time.Now().Before(tc.expiresAt) {
		return tc.token, true
	}
	return "", false
}

func (tc *TokenCache) set(token string, expiresAt time.Time) {
	tc.mu.Lock()
	tc.token = token
	tc.expiresAt = expiresAt
	tc.mu.Unlock()
}

// Invalidate drops the cached credential so the next call performs a fresh
// handshake. Used after an upstream 401.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.token = ""
	tc.expiresAt = time.Time{}
	tc.mu.Unlock()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login returns the cached bearer token, performing the anonymous device
// handshake when the slot is empty or expired.
func (c *Client) Login(ctx context.Context) (string, error) {
	if token, ok := c.tokens.get(); ok {
		return token, nil
	}

	// Warm-up request against the web front-end before the handshake.
	warmup, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Crunchyroll.BaseURL+"/", nil)
	if err == nil {
		warmup.Header.Set("User-Agent", c.cfg.Crunchyroll.UserAgent)
		if resp, err := c.web.Do(warmup); err == nil {
			resp.Body.Close()
		}
	}

	deviceID := uuid.NewString()
	form := url.Values{}
	form.Set("grant_type", "client_id")
	form.Set("scope", "offline_access")
	form.Set("device_id", deviceID)
	form.Set("device_type", "ANDROIDTV")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Crunchyroll.BaseURL+"/auth/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+c.cfg.Crunchyroll.AnonymousAuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("ETP-Anonymous-ID", deviceID)
	req.Header.Set("User-Agent", c.cfg.Crunchyroll.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("crunchyroll login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: crunchyroll login rejected (%s)", models.ErrAuthentication, resp.Status)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("crunchyroll login decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in crunchyroll response", models.ErrAuthentication)
	}

	expiresAt := c.tokenExpiry(tr.AccessToken)
	c.tokens.set(tr.AccessToken, expiresAt)
	c.log.Info("crunchyroll_login_ok", "expires_at", expiresAt.Format(time.RFC3339))
	return tr.AccessToken, nil
}

// tokenExpiry reads the exp claim off the upstream bearer token without
// verifying the signature. Tokens that do not parse fall back to the
// configured long-lived TTL.
func (c *Client) tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time.Add(-60 * time.Second)
		}
	}
	return time.Now().Add(c.cfg.Crunchyroll.TokenTTL)
}
