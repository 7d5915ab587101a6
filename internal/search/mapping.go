package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for note documents.
//
// Priorities:
//  1. Full-text search on title and content with English stemming
//  2. Exact keyword matching for tag filters
//  3. Numeric range and sort support for recency and popularity
//  4. Term vectors on title and author for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title is the primary search target.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Content is searchable but not stored, it can be large.
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = en.AnalyzerName
	contentFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("content", contentFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	seriesFieldMapping := bleve.NewTextFieldMapping()
	seriesFieldMapping.Analyzer = en.AnalyzerName
	seriesFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("series", seriesFieldMapping)

	// Keyword fields for exact filtering.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	authorIDFieldMapping := bleve.NewTextFieldMapping()
	authorIDFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("author_id", authorIDFieldMapping)

	// Keyword analyzer keeps multi-word tag names intact.
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	tagsFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// Numeric fields for sorting and range filters.
	likeCountFieldMapping := bleve.NewNumericFieldMapping()
	likeCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("like_count", likeCountFieldMapping)

	viewCountFieldMapping := bleve.NewNumericFieldMapping()
	viewCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("view_count", viewCountFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
