package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a note search.
type Params struct {
	Query string // User's search query

	// Filters
	Tags     []string // Exact tag names, OR across values
	AuthorID string   // Restrict to a single author

	// Pagination
	Limit  int
	Offset int

	// Sorting: "relevance", "title", "recent", "likes", "views"
	SortBy    string
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result holds the outcome of a search.
type Result struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []Hit        `json:"hits"`
	Facets []FacetCount `json:"facets,omitempty"` // Tag facets
}

// Hit is a single matching note.
type Hit struct {
	ID          string            `json:"id"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Author      string            `json:"author,omitempty"`
	Series      string            `json:"series,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	LikeCount   int               `json:"like_count,omitempty"`
	ViewCount   int               `json:"view_count,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a note search.
func (s *NoteIndex) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{
		"id", "title", "description", "author", "series", "tags",
		"like_count", "view_count",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["description"].(string); ok {
			h.Description = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["series"].(string); ok {
			h.Series = v
		}
		if v, ok := hit.Fields["like_count"].(float64); ok {
			h.LikeCount = int(v)
		}
		if v, ok := hit.Fields["view_count"].(float64); ok {
			h.ViewCount = int(v)
		}

		// Stored multi-value fields come back as a string for one
		// value and []any for several.
		switch tags := hit.Fields["tags"].(type) {
		case string:
			h.Tags = []string{tags}
		case []any:
			for _, t := range tags {
				if name, ok := t.(string); ok {
					h.Tags = append(h.Tags, name)
				}
			}
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		if tagFacet, ok := searchResult.Facets["tags"]; ok {
			for _, term := range tagFacet.Terms.Terms() {
				result.Facets = append(result.Facets, FacetCount{
					Value: term.Term,
					Count: term.Count,
				})
			}
		}
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Title carries the highest boost.
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		descMatch.SetBoost(1.5)
		textQueries = append(textQueries, descMatch)

		contentMatch := bleve.NewMatchQuery(params.Query)
		contentMatch.SetField("content")
		textQueries = append(textQueries, contentMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		textQueries = append(textQueries, authorMatch)

		// Fuzzy match for typo tolerance on the title.
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete.
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Tags) > 0 {
		tagQueries := make([]query.Query, len(params.Tags))
		for i, tag := range params.Tags {
			tq := bleve.NewTermQuery(tag)
			tq.SetField("tags")
			tagQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(tagQueries...))
	}

	if params.AuthorID != "" {
		aq := bleve.NewTermQuery(params.AuthorID)
		aq.SetField("author_id")
		queries = append(queries, aq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	case "likes":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"like_count"})
		} else {
			req.SortBy([]string{"-like_count"})
		}
	case "views":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"view_count"})
		} else {
			req.SortBy([]string{"-view_count"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}
