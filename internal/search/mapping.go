package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for guest documents.
//
// Names use the simple analyzer rather than a language analyzer: guest
// lists mix Hebrew and Latin scripts and stemming either of them hurts
// more than it helps. Phones, tags, and statuses are exact-match
// keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = simple.Name
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	lastNameFieldMapping := bleve.NewTextFieldMapping()
	lastNameFieldMapping.Analyzer = simple.Name
	lastNameFieldMapping.Store = true
	lastNameFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("last_name", lastNameFieldMapping)

	// --- Keyword fields (exact match, filterable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	eventFieldMapping := bleve.NewTextFieldMapping()
	eventFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("event_id", eventFieldMapping)

	// Phone is a keyword so prefix queries can match partial numbers.
	phoneFieldMapping := bleve.NewTextFieldMapping()
	phoneFieldMapping.Analyzer = keyword.Name
	phoneFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("phone", phoneFieldMapping)

	// Keyword analyzer keeps compound tags intact (e.g., "bride-side").
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	tagsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	// --- Numeric fields (sorting) ---

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
