package anilist

// mediaQuery is the fixed document sent on every lookup. Either id or search
// is bound; the upstream does its own ranking via SEARCH_MATCH.
const mediaQuery = `
query ($id: Int, $search: String, $type: MediaType) {
  Media (id: $id, search: $search, type: $type, sort: SEARCH_MATCH) {
    id
    title {
      romaji
      english
      native
    }
    description
    type
    format
    episodes
    chapters
    volumes
    averageScore
    status
    season
    seasonYear
    studios(isMain: true) {
      nodes {
        name
      }
    }
    coverImage {
      extraLarge
      color
    }
    bannerImage
    genres
    rankings {
      rank
      type
      allTime
      context
    }
    characters(role: MAIN, perPage: 4, sort: FAVOURITES_DESC) {
      edges {
        node {
          name {
            full
          }
          image {
            large
            medium
          }
          description
        }
        role
      }
    }
    supportingCharacters: characters(role: SUPPORTING, perPage: 4, sort: FAVOURITES_DESC) {
      edges {
        node {
          name {
            full
          }
          image {
            large
            medium
          }
        }
      }
    }
  }
}
`
