package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/config"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/logger"
)

func TestBuildVariables_NumericStringBindsID(t *testing.T) {
	variables := buildVariables("21", "anime")
	if variables["id"] != 21 {
		t.Fatalf("numeric query must bind $id, got %#v", variables)
	}
	if _, ok := variables["search"]; ok {
		t.Fatal("numeric query must not bind $search")
	}
	if variables["type"] != "ANIME" {
		t.Fatalf("unexpected type: %v", variables["type"])
	}
}

func TestBuildVariables_CanonicalURLExtractsID(t *testing.T) {
	variables := buildVariables("https://anilist.co/anime/178025/Gachiakuta/", "anime")
	if variables["id"] != 178025 {
		t.Fatalf("expected id 178025, got %#v", variables)
	}

	variables = buildVariables("https://anilist.co/manga/30013/One-Piece/", "manga")
	if variables["id"] != 30013 {
		t.Fatalf("expected id 30013, got %#v", variables)
	}
}

func TestBuildVariables_URLWithoutIDFallsBackToSearch(t *testing.T) {
	variables := buildVariables("https://anilist.co/search/anime", "anime")
	if _, ok := variables["id"]; ok {
		t.Fatalf("no ID to extract, got %#v", variables)
	}
	if variables["search"] != "https://anilist.co/search/anime" {
		t.Fatalf("full string should be the search term, got %#v", variables)
	}
}

func TestBuildVariables_FreeText(t *testing.T) {
	variables := buildVariables("Naruto", "manga")
	if variables["search"] != "Naruto" || variables["type"] != "MANGA" {
		t.Fatalf("unexpected variables: %#v", variables)
	}
}

func TestCleanDescription(t *testing.T) {
	got := cleanDescription("An <i>epic</i> tale.<br>Second line.")
	if got != "An epic tale.Second line." {
		t.Fatalf("unexpected description: %q", got)
	}
}

func newTestAniClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger.Init(logger.ERROR, false, nil)
	cfg := &config.Config{
		AniList: config.AniListConfig{
			APIURL:        srv.URL,
			OAuthTokenURL: srv.URL + "/oauth/token",
		},
		PoweredBy:       "@Blaze_Updatez",
		CreatedBy:       "@Bharath_boy",
		UpstreamTimeout: 5 * time.Second,
	}
	return NewClient(cfg, logger.GetLogger())
}

func TestFetch_NormalizesMedia(t *testing.T) {
	client := newTestAniClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad request payload: %v", err)
		}
		if payload.Variables["id"] != 21.0 {
			t.Errorf("expected id variable 21, got %#v", payload.Variables)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"Media": map[string]interface{}{
					"id":          21,
					"title":       map[string]string{"romaji": "One Piece"},
					"description": "Pirates.<br><i>Adventure!</i>",
					"type":        "ANIME",
					"genres":      []string{"Action", "Adventure"},
				},
			},
		})
	})

	media, limited, err := client.Fetch(context.Background(), "21", "anime", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limited != nil {
		t.Fatalf("unexpected rate limit notice: %+v", limited)
	}
	if media.ID != 21 {
		t.Fatalf("unexpected id: %d", media.ID)
	}
	if media.Description != "Pirates.Adventure!" {
		t.Fatalf("description tags not stripped: %q", media.Description)
	}
	if media.PoweredBy != "@Blaze_Updatez" || media.CreatedBy != "@Bharath_boy" {
		t.Fatalf("branding missing: %s / %s", media.PoweredBy, media.CreatedBy)
	}
}

func TestFetch_NilMediaMeansNotFound(t *testing.T) {
	client := newTestAniClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"Media": nil},
		})
	})

	media, limited, err := client.Fetch(context.Background(), "does not exist", "anime", "")
	if err != nil || limited != nil || media != nil {
		t.Fatalf("expected (nil, nil, nil), got (%v, %v, %v)", media, limited, err)
	}
}

func TestFetch_RateLimitPassThrough(t *testing.T) {
	client := newTestAniClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	media, limited, err := client.Fetch(context.Background(), "Naruto", "anime", "")
	if err != nil {
		t.Fatalf("429 is not an error: %v", err)
	}
	if media != nil {
		t.Fatalf("no media expected, got %+v", media)
	}
	if limited == nil || limited.Status != "waiting" || limited.RetryAfter != 30 {
		t.Fatalf("unexpected notice: %+v", limited)
	}
}

func TestFetch_RateLimitDefaultRetryAfter(t *testing.T) {
	client := newTestAniClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, limited, err := client.Fetch(context.Background(), "Naruto", "anime", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limited == nil || limited.RetryAfter != 2 {
		t.Fatalf("expected default retry_after 2, got %+v", limited)
	}
}

func TestFetch_SendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestAniClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"Media": map[string]interface{}{"id": 1},
			},
		})
	})

	if _, _, err := client.Fetch(context.Background(), "1", "anime", "secret-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestGetAccessToken_CachesUntilExpiry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "cached-token",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)

	logger.Init(logger.ERROR, false, nil)
	cfg := &config.Config{
		AniList: config.AniListConfig{
			APIURL:        srv.URL,
			OAuthTokenURL: srv.URL,
			ClientID:      "id",
			ClientSecret:  "secret",
		},
		UpstreamTimeout: 5 * time.Second,
	}
	client := NewClient(cfg, logger.GetLogger())

	for i := 0; i < 3; i++ {
		token, err := client.GetAccessToken(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "cached-token" {
			t.Fatalf("unexpected token: %q", token)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single handshake, got %d", calls)
	}
}
