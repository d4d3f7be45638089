package crunchyroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/internal/sanitize"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/models"
)

// FetchSeries resolves the query to a series ID and aggregates the primary
// record, categories, copyright text and the search snapshot into one
// normalized record. Secondary sources may fail without failing the request;
// only a missing primary record is terminal.
func (c *Client) FetchSeries(ctx context.Context, query string) (*models.MediaRecord, error) {
	query = sanitize.String(query, "")
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", models.ErrValidation)
	}

	token, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.resolve(ctx, token, query)
	if err != nil {
		return nil, err
	}
	token = res.token

	var (
		wg        sync.WaitGroup
		cms       *seriesResponse
		cmsErr    error
		genres    []string
		copyright string
		snapshot  = res.snapshot
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cms, cmsErr = c.series(ctx, token, res.id)
	}()
	go func() {
		defer wg.Done()
		copyright = c.copyright(ctx, res.id)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		list, err := c.categories(ctx, token, res.id)
		if err != nil {
			c.log.Debug("categories_fetch_failed", "series_id", res.id, "error", err.Error())
			return
		}
		genres = list
	}()

	if snapshot == nil && res.snapshotQuery != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sr, _, err := c.search(ctx, token, res.snapshotQuery, 1)
			if err != nil {
				c.log.Debug("snapshot_fetch_failed", "series_id", res.id, "error", err.Error())
				return
			}
			snapshot = sr
		}()
	}

	wg.Wait()

	if cmsErr != nil {
		return nil, cmsErr
	}
	if cms == nil || len(cms.Data) == 0 {
		return nil, fmt.Errorf("%w: series details not found", models.ErrNotFound)
	}

	return c.assemble(res.id, cms.Data[0], snapshot, genres, copyright), nil
}

// assemble builds the normalized record from the settled sources. All loose
// upstream values pass through the sanitizer here and nowhere else.
func (c *Client) assemble(seriesID string, full map[string]interface{}, snapshot *searchResponse, genres []string, copyright string) *models.MediaRecord {
	// When the category endpoint gave nothing, derive genres from the
	// tenant categories embedded in the primary record.
	if len(genres) == 0 {
		for _, cat := range sanitize.List(full["tenant_categories"]) {
			name := ""
			switch v := cat.(type) {
			case string:
				name = v
			case map[string]interface{}:
				name = sanitize.String(v["display_value"], "")
				if name == "" {
					name = sanitize.String(v["label"], "")
				}
				if name == "" {
					name = sanitize.String(v["id"], "")
				}
			}
			if name != "" {
				genres = append(genres, sanitize.String(name, ""))
			}
		}
	}
	if genres == nil {
		genres = []string{}
	}

	images, _ := full["images"].(map[string]interface{})

	rating := models.MediaRating{Stars: "N/A", Count: "N/A", Breakdown: map[string]string{}}
	if item := snapshotItem(snapshot, seriesID); item != nil && item.Rating != nil {
		rating.Stars = sanitize.String(item.Rating["average"], "N/A")
		rating.Count = sanitize.String(item.Rating["total"], "N/A")
		for _, key := range []string{"5s", "4s", "3s", "2s", "1s"} {
			star, ok := item.Rating[key].(map[string]interface{})
			if !ok {
				continue
			}
			rating.Breakdown[key] = sanitize.String(star["displayed"], "0")
		}
	}

	awards := []models.MediaAward{}
	for _, raw := range sanitize.List(full["awards"]) {
		award, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		winner, _ := award["is_winner"].(bool)
		awards = append(awards, models.MediaAward{
			Text:     sanitize.String(award["text"], ""),
			IconURL:  sanitize.URL(award["icon_url"]),
			IsWinner: winner,
		})
	}

	var releaseYear *int
	if year := sanitize.Integer(full["series_launch_year"], 0); year != 0 {
		releaseYear = &year
	}

	return &models.MediaRecord{
		ID:                  sanitize.String(seriesID, ""),
		Title:               sanitize.String(full["title"], ""),
		Slug:                sanitize.String(full["slug_title"], ""),
		Year:                sanitize.Integer(full["series_launch_year"], 0),
		Description:         sanitize.String(full["description"], ""),
		ExtendedDescription: sanitize.String(full["extended_description"], ""),
		Images: models.MediaImages{
			LandscapePoster: sanitize.BestImage(images, "poster_wide"),
			PortraitPoster:  sanitize.BestImage(images, "poster_tall"),
			BannerBackdrop:  "https://imgsrv.crunchyroll.com/cdn-cgi/image/fit=cover,format=auto,quality=100,width=1920/keyart/" + seriesID + "-backdrop_wide",
		},
		Stats: models.MediaStats{
			EpisodeCount: sanitize.Integer(full["episode_count"], 0),
			SeasonCount:  sanitize.Integer(full["season_count"], 0),
			IsSimulcast:  asBool(full["is_simulcast"]),
			IsDubbed:     asBool(full["is_dubbed"]),
			IsSubbed:     asBool(full["is_subbed"]),
		},
		Languages: models.MediaLangs{
			Audio:     sanitize.StringList(full["audio_locales"]),
			Subtitles: sanitize.StringList(full["subtitle_locales"]),
		},
		Metadata: models.MediaMetadata{
			Rating: rating,
			Maturity: models.MediaMaturity{
				AgeRating: sanitize.StringList(full["maturity_ratings"]),
				Advisory:  sanitize.StringList(full["content_descriptors"]),
			},
			Genres:      genres,
			Keywords:    sanitize.StringList(full["keywords"]),
			ReleaseYear: releaseYear,
			Publisher:   sanitize.String(full["content_provider"], ""),
			Copyright:   copyright,
			Awards:      awards,
		},
		PoweredBy: c.cfg.PoweredBy,
		CreatedBy: c.cfg.CreatedBy,
	}
}

// snapshotItem prefers the snapshot entry matching the resolved ID, falling
// back to the first entry.
func snapshotItem(snapshot *searchResponse, seriesID string) *searchItem {
	items := snapshot.items()
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == seriesID {
			return &items[i]
		}
	}
	return &items[0]
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
