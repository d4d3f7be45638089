package models

// AniMedia is the normalized output for an AniList lookup. The shape mirrors
// the fixed GraphQL query document, so the upstream record passes through
// with only description cleanup plus the branding fields.
type AniMedia struct {
	ID                   int            `json:"id"`
	Title                AniTitle       `json:"title"`
	Description          string         `json:"description"`
	Type                 string         `json:"type"`
	Format               string         `json:"format"`
	Episodes             *int           `json:"episodes"`
	Chapters             *int           `json:"chapters"`
	Volumes              *int           `json:"volumes"`
	AverageScore         *int           `json:"averageScore"`
	Status               string         `json:"status"`
	Season               *string        `json:"season"`
	SeasonYear           *int           `json:"seasonYear"`
	Studios              AniStudios     `json:"studios"`
	CoverImage           AniCoverImage  `json:"coverImage"`
	BannerImage          *string        `json:"bannerImage"`
	Genres               []string       `json:"genres"`
	Rankings             []AniRanking   `json:"rankings"`
	Characters           AniCharacters  `json:"characters"`
	SupportingCharacters AniCharacters  `json:"supportingCharacters"`
	PoweredBy            string         `json:"powered_by"`
	CreatedBy            string         `json:"created_by"`
}

type AniTitle struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

type AniStudios struct {
	Nodes []AniStudioNode `json:"nodes"`
}

type AniStudioNode struct {
	Name string `json:"name"`
}

type AniCoverImage struct {
	ExtraLarge *string `json:"extraLarge"`
	Color      *string `json:"color"`
}

type AniRanking struct {
	Rank    int    `json:"rank"`
	Type    string `json:"type"`
	AllTime bool   `json:"allTime"`
	Context string `json:"context"`
}

type AniCharacters struct {
	Edges []AniCharacterEdge `json:"edges"`
}

type AniCharacterEdge struct {
	Node AniCharacterNode `json:"node"`
	Role string           `json:"role,omitempty"`
}

type AniCharacterNode struct {
	Name        AniCharacterName  `json:"name"`
	Image       AniCharacterImage `json:"image"`
	Description *string           `json:"description,omitempty"`
}

type AniCharacterName struct {
	Full string `json:"full"`
}

type AniCharacterImage struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

// RateLimitNotice is returned with HTTP 200 when the upstream answers 429.
type RateLimitNotice struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
	PoweredBy  string `json:"powered_by"`
	CreatedBy  string `json:"created_by"`
}
