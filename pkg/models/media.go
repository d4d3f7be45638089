package models

// MediaRecord is the normalized output for a Crunchyroll series lookup.
// Every string is entity-decoded and whitespace-collapsed, every URL is a
// validated absolute http(s) URL or null, and every list is always a list.
// Built once per request and never mutated afterwards.
type MediaRecord struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Slug                string        `json:"slug"`
	Year                int           `json:"year"`
	Description         string        `json:"description"`
	ExtendedDescription string        `json:"extended_description"`
	Images              MediaImages   `json:"images"`
	Stats               MediaStats    `json:"stats"`
	Languages           MediaLangs    `json:"languages"`
	Metadata            MediaMetadata `json:"metadata"`
	PoweredBy           string        `json:"powered_by"`
	CreatedBy           string        `json:"created_by"`
}

type MediaImages struct {
	LandscapePoster *string `json:"landscape_poster"`
	PortraitPoster  *string `json:"portrait_poster"`
	BannerBackdrop  string  `json:"banner_backdrop"`
}

type MediaStats struct {
	EpisodeCount int  `json:"episode_count"`
	SeasonCount  int  `json:"season_count"`
	IsSimulcast  bool `json:"is_simulcast"`
	IsDubbed     bool `json:"is_dubbed"`
	IsSubbed     bool `json:"is_subbed"`
}

type MediaLangs struct {
	Audio     []string `json:"audio"`
	Subtitles []string `json:"subtitles"`
}

type MediaMetadata struct {
	Rating      MediaRating   `json:"rating"`
	Maturity    MediaMaturity `json:"maturity"`
	Genres      []string      `json:"genres"`
	Keywords    []string      `json:"keywords"`
	ReleaseYear *int          `json:"release_year"`
	Publisher   string        `json:"publisher"`
	Copyright   string        `json:"copyright"`
	Awards      []MediaAward  `json:"awards"`
}

// MediaRating aggregates the star rating from the search snapshot. Stars and
// Count carry the "N/A" sentinel when the snapshot had no rating block.
type MediaRating struct {
	Stars     string            `json:"stars"`
	Count     string            `json:"count"`
	Breakdown map[string]string `json:"breakdown"`
}

type MediaMaturity struct {
	AgeRating []string `json:"age_rating"`
	Advisory  []string `json:"advisory"`
}

type MediaAward struct {
	Text     string  `json:"text"`
	IconURL  *string `json:"icon_url"`
	IsWinner bool    `json:"is_winner"`
}
