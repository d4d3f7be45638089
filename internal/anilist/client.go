// Package anilist resolves queries against the AniList GraphQL API. The
// upstream returns one consolidated record, so the pipeline is classify,
// fetch, normalize: no fuzzy matching or multi-source aggregation needed.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/config"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/logger"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/models"
)

var (
	numericPattern  = regexp.MustCompile(`^\d+$`)
	mediaURLPattern = regexp.MustCompile(`anilist\.co/(?:anime|manga)/(\d+)`)
)

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

type Client struct {
	cfg    *config.Config
	http   *http.Client
	tokens *TokenCache
	log    *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.UpstreamTimeout},
		tokens: &TokenCache{},
		log:    log.WithContext("component", "anilist"),
	}
}

// HasCredentials reports whether an OAuth2 client is configured. Without
// one, every request goes out unauthenticated.
func (c *Client) HasCredentials() bool {
	return c.cfg.AniList.ClientID != "" && c.cfg.AniList.ClientSecret != ""
}

// GetAccessToken returns the cached OAuth2 token, performing the
// client-credentials exchange when the slot is empty or expired.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.get(); ok {
		return token, nil
	}

	body, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.cfg.AniList.ClientID,
		"client_secret": c.cfg.AniList.ClientSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AniList.OAuthTokenURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("anilist token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: anilist token exchange rejected (%s)", models.ErrAuthentication, resp.Status)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("anilist token decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in anilist response", models.ErrAuthentication)
	}

	// Safety margin against clock skew around the reported lifetime.
	expiresAt := time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - 60*time.Second)
	c.tokens.set(tr.AccessToken, expiresAt)
	return tr.AccessToken, nil
}

// buildVariables classifies the query: numeric strings and canonical URLs
// with an embedded ID bind $id, everything else binds $search.
func buildVariables(query, mediaType string) map[string]interface{} {
	variables := map[string]interface{}{
		"type": strings.ToUpper(mediaType),
	}

	if numericPattern.MatchString(query) {
		id, _ := strconv.Atoi(query)
		variables["id"] = id
		return variables
	}
	if strings.Contains(query, "anilist.co") {
		if m := mediaURLPattern.FindStringSubmatch(query); m != nil {
			id, _ := strconv.Atoi(m[1])
			variables["id"] = id
			return variables
		}
	}
	variables["search"] = query
	return variables
}

// Fetch runs the media lookup. It returns exactly one of: a normalized
// record, a rate-limit notice (upstream 429, not an error), or an error.
// A nil record with nil error means the upstream found nothing.
func (c *Client) Fetch(ctx context.Context, query, mediaType, token string) (*models.AniMedia, *models.RateLimitNotice, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     mediaQuery,
		"variables": buildVariables(query, mediaType),
	})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AniList.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("anilist request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 2
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if n, err := strconv.Atoi(ra); err == nil {
				retryAfter = n
			}
		}
		c.log.Warn("anilist_rate_limited", "retry_after", retryAfter)
		return nil, &models.RateLimitNotice{
			Status:     "waiting",
			Message:    "Rate limited by AniList.",
			RetryAfter: retryAfter,
			PoweredBy:  c.cfg.PoweredBy,
			CreatedBy:  c.cfg.CreatedBy,
		}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: anilist api error (%s)", models.ErrUpstream, resp.Status)
	}

	var result struct {
		Data struct {
			Media *models.AniMedia `json:"Media"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, nil, fmt.Errorf("anilist decode: %w", err)
	}
	if result.Data.Media == nil {
		return nil, nil, nil
	}

	media := result.Data.Media
	media.Description = cleanDescription(media.Description)
	media.PoweredBy = c.cfg.PoweredBy
	media.CreatedBy = c.cfg.CreatedBy
	return media, nil, nil
}

// cleanDescription strips the markup tags AniList embeds in descriptions.
func cleanDescription(description string) string {
	r := strings.NewReplacer("<br>", "", "<i>", "", "</i>", "")
	return r.Replace(description)
}
