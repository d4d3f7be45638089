// Package crunchyroll resolves search queries against the Crunchyroll
// catalog and normalizes series metadata into the stable output schema.
package crunchyroll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/internal/sanitize"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/config"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/logger"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/models"
)

type Client struct {
	cfg    *config.Config
	http   *http.Client
	web    *http.Client
	tokens *TokenCache
	log    *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.UpstreamTimeout},
		web:    &http.Client{Timeout: cfg.UpstreamTimeout},
		tokens: &TokenCache{},
		log:    log.WithContext("component", "crunchyroll"),
	}
}

type searchResponse struct {
	Data []searchBucket `json:"data"`
}

type searchBucket struct {
	Items []searchItem `json:"items"`
}

// searchItem keeps the rating block loose: the upstream mixes numbers and
// strings inside it, so it goes through the sanitizer at assembly time.
type searchItem struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"`
	Title  string                 `json:"title"`
	Rating map[string]interface{} `json:"rating"`
}

func (sr *searchResponse) items() []searchItem {
	if sr == nil {
		return nil
	}
	var out []searchItem
	for _, bucket := range sr.Data {
		out = append(out, bucket.Items...)
	}
	return out
}

type seriesResponse struct {
	Data []map[string]interface{} `json:"data"`
}

type categoriesResponse struct {
	Data []struct {
		Localization struct {
			Title string `json:"title"`
		} `json:"localization"`
	} `json:"data"`
}

func (c *Client) authedGet(ctx context.Context, token, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.cfg.Crunchyroll.UserAgent)
	return c.http.Do(req)
}

func (c *Client) search(ctx context.Context, token, query string, limit int) (*searchResponse, int, error) {
	u, err := url.Parse(c.cfg.Crunchyroll.BaseURL + "/content/v2/discover/search")
	if err != nil {
		return nil, 0, err
	}
	qs := u.Query()
	qs.Set("q", query)
	qs.Set("type", "series")
	qs.Set("limit", fmt.Sprintf("%d", limit))
	qs.Set("locale", c.cfg.Crunchyroll.Locale)
	qs.Set("ratings", "true")
	u.RawQuery = qs.Encode()

	resp, err := c.authedGet(ctx, token, u.String())
	if err != nil {
		return nil, 0, fmt.Errorf("crunchyroll search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: crunchyroll search failed (%s)", models.ErrUpstream, resp.Status)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("crunchyroll search decode: %w", err)
	}
	return &sr, resp.StatusCode, nil
}

// searchWithRetry re-authenticates once on a 401 and repeats the search.
// This is the only retry in the pipeline.
func (c *Client) searchWithRetry(ctx context.Context, token, query string, limit int) (*searchResponse, string, error) {
	sr, status, err := c.search(ctx, token, query, limit)
	if status == http.StatusUnauthorized {
		c.tokens.Invalidate()
		fresh, loginErr := c.Login(ctx)
		if loginErr != nil {
			return nil, token, loginErr
		}
		token = fresh
		sr, _, err = c.search(ctx, token, query, limit)
	}
	return sr, token, err
}

func (c *Client) series(ctx context.Context, token, seriesID string) (*seriesResponse, error) {
	u, err := url.Parse(c.cfg.Crunchyroll.BaseURL + "/content/v2/cms/series/" + seriesID)
	if err != nil {
		return nil, err
	}
	qs := u.Query()
	qs.Set("locale", c.cfg.Crunchyroll.Locale)
	u.RawQuery = qs.Encode()

	resp, err := c.authedGet(ctx, token, u.String())
	if err != nil {
		return nil, fmt.Errorf("crunchyroll series request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: crunchyroll series fetch failed (%s)", models.ErrUpstream, resp.Status)
	}

	var cms seriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&cms); err != nil {
		return nil, fmt.Errorf("crunchyroll series decode: %w", err)
	}
	return &cms, nil
}

// categories returns the sanitized genre titles for a series. Callers treat
// any failure as an empty list.
func (c *Client) categories(ctx context.Context, token, seriesID string) ([]string, error) {
	u, err := url.Parse(c.cfg.Crunchyroll.BaseURL + "/content/v2/discover/categories")
	if err != nil {
		return nil, err
	}
	qs := u.Query()
	qs.Set("guid", seriesID)
	qs.Set("locale", c.cfg.Crunchyroll.Locale)
	u.RawQuery = qs.Encode()

	resp, err := c.authedGet(ctx, token, u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("categories fetch failed: %s", resp.Status)
	}

	var cr categoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, err
	}

	var genres []string
	for _, item := range cr.Data {
		if item.Localization.Title != "" {
			genres = append(genres, sanitize.String(item.Localization.Title, ""))
		}
	}
	return genres, nil
}

// copyright fetches the static copyright asset. The asset is unauthenticated
// and optional; every failure path returns the "N/A" sentinel.
func (c *Client) copyright(ctx context.Context, seriesID string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.Crunchyroll.StaticURL+"/copyright/"+seriesID+".json", nil)
	if err != nil {
		return "N/A"
	}
	req.Header.Set("User-Agent", c.cfg.Crunchyroll.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "N/A"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "N/A"
	}

	var doc struct {
		LongCopyright  string `json:"longCopyright"`
		ShortCopyright string `json:"shortCopyright"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "N/A"
	}

	text := doc.LongCopyright
	if text == "" {
		text = doc.ShortCopyright
	}
	return sanitize.String(text, "N/A")
}
