package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for chart documents.
//
// Song titles get full-text treatment so batch-manual imports can match
// titles with punctuation or casing differences. Everything used for
// filtering (game, playtype, difficulty) is an exact keyword field.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	// Song title - primary search target
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = simple.Name
	titleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("song_title", titleFieldMapping)

	// Normalized title - exact matching after unicode folding
	normTitleFieldMapping := bleve.NewTextFieldMapping()
	normTitleFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("norm_title", normTitleFieldMapping)

	// --- Keyword fields (exact match filters) ---

	gameFieldMapping := bleve.NewTextFieldMapping()
	gameFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("game", gameFieldMapping)

	playtypeFieldMapping := bleve.NewTextFieldMapping()
	playtypeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("playtype", playtypeFieldMapping)

	difficultyFieldMapping := bleve.NewTextFieldMapping()
	difficultyFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("difficulty", difficultyFieldMapping)

	chartIDFieldMapping := bleve.NewTextFieldMapping()
	chartIDFieldMapping.Analyzer = keyword.Name
	chartIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("chart_id", chartIDFieldMapping)

	songIDFieldMapping := bleve.NewTextFieldMapping()
	songIDFieldMapping.Analyzer = keyword.Name
	songIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("song_id", songIDFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
