package crunchyroll

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/models"
)

type queryKind int

const (
	kindDirectID queryKind = iota
	kindCanonicalURL
	kindFreeText
)

var (
	seriesIDPattern  = regexp.MustCompile(`^[A-Z0-9]{9}$`)
	seriesURLPattern = regexp.MustCompile(`/series/([A-Z0-9]{9})`)
	slugIDPattern    = regexp.MustCompile(`/series/([A-Z0-9]+)`)
	slugSpacePattern = regexp.MustCompile(`\s+`)
)

// classify inspects the raw query and extracts an embedded series ID where
// one exists. Identifier shapes always win over free text; a catalog URL
// without an extractable ID degrades to free text. Purely numeric strings
// are not Crunchyroll IDs and fall through to search.
func classify(query string) (queryKind, string) {
	if seriesIDPattern.MatchString(query) {
		return kindDirectID, query
	}
	if strings.Contains(query, "crunchyroll.com/") {
		if m := seriesURLPattern.FindStringSubmatch(query); m != nil {
			return kindCanonicalURL, m[1]
		}
	}
	return kindFreeText, ""
}

// levenshteinRatio is the normalized similarity between two strings:
// 1 - editDistance/maxLen, and 1.0 when both strings are empty.
func levenshteinRatio(s, t string) float64 {
	m, n := len(s), len(t)
	if m == 0 && n == 0 {
		return 1.0
	}
	if m == 0 || n == 0 {
		return 0.0
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	maxLen := m
	if n > maxLen {
		maxLen = n
	}
	return 1.0 - float64(prev[n])/float64(maxLen)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// resolved is the outcome of the resolution chain: a concrete series ID plus
// either the search snapshot already fetched during fuzzy matching, or the
// query the aggregator should use to fetch one in parallel.
type resolved struct {
	id            string
	snapshot      *searchResponse
	snapshotQuery string
	token         string
}

// resolve runs the ordered strategy chain: direct ID, canonical URL, fuzzy
// search, slug redirect fallback. Each strategy either produces a series ID
// or passes the query to the next one.
func (c *Client) resolve(ctx context.Context, token, query string) (*resolved, error) {
	kind, id := classify(query)
	switch kind {
	case kindDirectID:
		return &resolved{id: id, snapshotQuery: query, token: token}, nil
	case kindCanonicalURL:
		return &resolved{id: id, snapshotQuery: id, token: token}, nil
	}

	res, err := c.resolveFuzzy(ctx, token, query)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}

	id, err = c.resolveSlug(ctx, query)
	if err != nil {
		return nil, err
	}
	return &resolved{id: id, token: token}, nil
}

// resolveFuzzy searches the catalog and accepts the best-scoring candidate
// when it clears the similarity threshold. A nil result (no error) hands the
// query to the slug fallback.
func (c *Client) resolveFuzzy(ctx context.Context, token, query string) (*resolved, error) {
	sr, token, err := c.searchWithRetry(ctx, token, query, c.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	bestRatio := 0.0
	var best *searchItem

	for _, item := range sr.items() {
		if item.Type != "series" {
			continue
		}
		ratio := levenshteinRatio(queryLower, strings.ToLower(item.Title))
		// Strict comparison keeps the first candidate on ties.
		if ratio > bestRatio {
			bestRatio = ratio
			matched := item
			best = &matched
		}
	}

	if best == nil || bestRatio < c.cfg.FuzzyThreshold {
		c.log.Debug("fuzzy_match_below_threshold", "query", query, "best_ratio", fmt.Sprintf("%.3f", bestRatio))
		return nil, nil
	}

	snapshot := &searchResponse{Data: []searchBucket{{Items: []searchItem{*best}}}}
	return &resolved{id: best.ID, snapshot: snapshot, token: token}, nil
}

// resolveSlug derives a URL slug from the query and follows the web
// front-end's redirects, extracting the series ID from the final URL.
func (c *Client) resolveSlug(ctx context.Context, query string) (string, error) {
	slug := slugSpacePattern.ReplaceAllString(strings.ToLower(query), "-")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Crunchyroll.BaseURL+"/"+slug, nil)
	if err != nil {
		return "", fmt.Errorf("%w: series not found", models.ErrNotFound)
	}
	req.Header.Set("User-Agent", c.cfg.Crunchyroll.UserAgent)

	resp, err := c.web.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: series not found", models.ErrNotFound)
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if m := slugIDPattern.FindStringSubmatch(final); m != nil {
		c.log.Info("slug_fallback_resolved", "query", query, "series_id", m[1])
		return m[1], nil
	}
	return "", fmt.Errorf("%w: series not found", models.ErrNotFound)
}
