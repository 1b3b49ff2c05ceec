package testutil

import (
	"testing"
	"time"

	"GoCollate/internal/analysis"
	"GoCollate/internal/index"
	"GoCollate/internal/indexing"
)

// BasicSchema returns a schema suitable for most tests: analyzed text,
// keyword identity terms, and an English collated sort field.
func BasicSchema() *index.Schema {
	return &index.Schema{
		Version:         1,
		CreatedAt:       time.Now().UTC(),
		DefaultAnalyzer: index.AnalyzerStandard,
		CompatVersion:   "raw_key_bytes",
		Fields: []index.FieldDef{
			{Name: "id", Type: index.FieldTypeKeyword, Stored: true, Indexed: true},
			{Name: "title", Type: index.FieldTypeText, Analyzer: index.AnalyzerStandard, Stored: true, Indexed: true, Positions: true},
			{Name: "title_sort", Type: index.FieldTypeCollated, Locale: "en-US", Indexed: true},
			{Name: "tags", Type: index.FieldTypeKeyword, Stored: true, Indexed: true, MultiValued: true},
		},
	}
}

// LegacySchema is BasicSchema under the pre-cutover term format.
func LegacySchema() *index.Schema {
	s := BasicSchema()
	s.CompatVersion = "ordered_encoding"
	return s
}

// BuildRegistry builds the schema's registry, failing the test on error.
func BuildRegistry(t *testing.T, s *index.Schema) *analysis.Registry {
	t.Helper()
	r, err := s.BuildRegistry()
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	return r
}

// SampleDocuments returns a small set of test documents whose sort
// titles deliberately mix case and accents.
func SampleDocuments() []indexing.Document {
	return []indexing.Document{
		{Fields: map[string]interface{}{
			"id":         "doc-1",
			"title":      "Introduction to Search Engines",
			"title_sort": "Introduction to Search Engines",
			"tags":       []interface{}{"search", "tutorial"},
		}},
		{Fields: map[string]interface{}{
			"id":         "doc-2",
			"title":      "Études in Query Processing",
			"title_sort": "Études in Query Processing",
			"tags":       []interface{}{"search", "advanced"},
		}},
		{Fields: map[string]interface{}{
			"id":         "doc-3",
			"title":      "building an inverted index",
			"title_sort": "building an inverted index",
			"tags":       []interface{}{"indexing", "tutorial"},
		}},
	}
}

// IngestDocuments indexes a set of documents into a writer.
func IngestDocuments(t *testing.T, w *indexing.Writer, docs []indexing.Document) {
	t.Helper()
	for _, doc := range docs {
		if err := w.AddDocument(doc); err != nil {
			t.Fatalf("AddDocument(%v): %v", doc.Fields["id"], err)
		}
	}
}

// CreatePopulatedWriter creates a writer with sample documents already ingested.
func CreatePopulatedWriter(t *testing.T) *indexing.Writer {
	t.Helper()
	schema := BasicSchema()
	w := indexing.NewWriter(schema, BuildRegistry(t, schema))
	IngestDocuments(t, w, SampleDocuments())
	return w
}
