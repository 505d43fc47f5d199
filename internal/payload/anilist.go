package payload

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AniListEndpoint is the public AniList GraphQL API.
const AniListEndpoint = "https://graphql.anilist.co"

const mediaQuery = `query ($id: Int) {
  Media(id: $id) {
    id
    title { romaji english native }
    isAdult
    format
  }
}`

const relationsQuery = `query ($id: Int) {
  Media(id: $id) {
    relations {
      edges {
        relationType
        node {
          id
          type
          title { romaji english native }
        }
      }
    }
  }
}`

// GraphQLRequest is the JSON body of a GraphQL POST.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// MediaTitle holds the titles AniList knows for a media entry. English and
// Native are empty when AniList has none.
type MediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// Media is the subset of an AniList media entry the listing uses.
type Media struct {
	ID      int        `json:"id"`
	Title   MediaTitle `json:"title"`
	IsAdult bool       `json:"isAdult"`
	Format  string     `json:"format"`
}

// Relation is one edge of an AniList media's relation graph.
type Relation struct {
	RelationType string `json:"relationType"`
	Node         struct {
		ID    int        `json:"id"`
		Type  string     `json:"type"`
		Title MediaTitle `json:"title"`
	} `json:"node"`
}

func anilistRequest(query string, id uint32) Request {
	return Request{
		Method: http.MethodPost,
		Path:   AniListEndpoint,
		Body:   GraphQLRequest{Query: query, Variables: map[string]any{"id": id}},
	}
}

// AniListMedia asks AniList for the titles, adult flag and format of id.
func AniListMedia(id uint32) Request {
	return anilistRequest(mediaQuery, id)
}

// AniListRelations asks AniList for the related entries of id.
func AniListRelations(id uint32) Request {
	return anilistRequest(relationsQuery, id)
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// decodeGraphQL unwraps a GraphQL envelope into v. Errors reported inside a
// 2xx reply are still failures.
func decodeGraphQL(status int, body []byte, v any) error {
	var env graphQLResponse
	if err := DecodeResponse(status, body, &env); err != nil {
		return err
	}
	if len(env.Errors) > 0 {
		return &ExternalServiceError{Status: status, Message: env.Errors[0].Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &ExternalServiceError{Status: status, Message: "response has no data"}
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return &ExternalServiceError{Status: status, Message: "malformed response", Err: err}
	}
	return nil
}

// DecodeAniListMedia decodes the reply to AniListMedia.
func DecodeAniListMedia(status int, body []byte) (*Media, error) {
	var data struct {
		Media *Media `json:"Media"`
	}
	if err := decodeGraphQL(status, body, &data); err != nil {
		return nil, fmt.Errorf("failed to look up anilist media: %w", err)
	}
	if data.Media == nil {
		return nil, fmt.Errorf("failed to look up anilist media: %w", &ExternalServiceError{Status: status, Message: "media not found"})
	}
	return data.Media, nil
}

// DecodeAniListRelations decodes the reply to AniListRelations.
func DecodeAniListRelations(status int, body []byte) ([]Relation, error) {
	var data struct {
		Media *struct {
			Relations struct {
				Edges []Relation `json:"edges"`
			} `json:"relations"`
		} `json:"Media"`
	}
	if err := decodeGraphQL(status, body, &data); err != nil {
		return nil, fmt.Errorf("failed to look up anilist relations: %w", err)
	}
	if data.Media == nil {
		return nil, fmt.Errorf("failed to look up anilist relations: %w", &ExternalServiceError{Status: status, Message: "media not found"})
	}
	return data.Media.Relations.Edges, nil
}

// RelatedIDs returns the AniList ids of every related node, in order and
// without duplicates.
func RelatedIDs(relations []Relation) []uint32 {
	seen := make(map[int]bool, len(relations))
	ids := make([]uint32, 0, len(relations))
	for _, r := range relations {
		if r.Node.ID <= 0 || seen[r.Node.ID] {
			continue
		}
		seen[r.Node.ID] = true
		ids = append(ids, uint32(r.Node.ID))
	}
	return ids
}
