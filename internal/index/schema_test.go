package index

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"GoCollate/internal/collation"
)

func validSchema() *Schema {
	return &Schema{
		Version:         1,
		CreatedAt:       time.Now().UTC(),
		DefaultAnalyzer: AnalyzerStandard,
		CompatVersion:   "raw_key_bytes",
		Fields: []FieldDef{
			{Name: "id", Type: FieldTypeKeyword, Stored: true, Indexed: true},
			{Name: "title", Type: FieldTypeText, Analyzer: AnalyzerStandard, Stored: true, Indexed: true, Positions: true},
			{Name: "title_sort", Type: FieldTypeCollated, Locale: "en-US", Indexed: true},
			{Name: "name_de", Type: FieldTypeCollated, Locale: "de", IgnoreCase: true, Indexed: true},
			{Name: "metadata", Type: FieldTypeStoredOnly, Stored: true},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := validSchema().Validate(); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}
}

func TestSchemaValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schema)
		wantErr error
	}{
		{"reserved field", func(s *Schema) { s.Fields[0].Name = "_id" }, ErrSchemaReservedField},
		{"duplicate field", func(s *Schema) { s.Fields[1].Name = "id" }, ErrSchemaDuplicateField},
		{"bad type", func(s *Schema) { s.Fields[0].Type = "integer" }, ErrSchemaInvalidType},
		{"bad analyzer", func(s *Schema) { s.Fields[1].Analyzer = "phonetic" }, ErrSchemaInvalidAnalyzer},
		{"text without analyzer", func(s *Schema) { s.Fields[1].Analyzer = "" }, ErrSchemaMissingAnalyzer},
		{"collated without locale", func(s *Schema) { s.Fields[2].Locale = "" }, ErrSchemaMissingLocale},
		{"collated bad locale", func(s *Schema) { s.Fields[2].Locale = "no such locale" }, ErrSchemaInvalidLocale},
		{"bad default analyzer", func(s *Schema) { s.DefaultAnalyzer = "phonetic" }, ErrSchemaInvalidAnalyzer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(s)
			err := s.Validate()
			if err == nil {
				t.Fatal("Validate succeeded")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchemaValidateCollatedConstraints(t *testing.T) {
	s := validSchema()
	s.Fields[2].Positions = true
	if err := s.Validate(); err == nil {
		t.Error("positions on collated field accepted")
	}

	s = validSchema()
	s.Fields[2].Analyzer = AnalyzerKeyword
	if err := s.Validate(); err == nil {
		t.Error("explicit analyzer on collated field accepted")
	}

	s = validSchema()
	s.CompatVersion = "format_9"
	if err := s.Validate(); err == nil {
		t.Error("unknown compat version accepted")
	}
}

func TestSchemaCompatibilityVersion(t *testing.T) {
	s := validSchema()
	v, err := s.CompatibilityVersion()
	if err != nil || v != collation.VersionRawKeyBytes {
		t.Errorf("CompatibilityVersion = %v, %v", v, err)
	}

	s.CompatVersion = "ordered_encoding"
	v, err = s.CompatibilityVersion()
	if err != nil || v != collation.VersionOrderedEncoding {
		t.Errorf("legacy CompatibilityVersion = %v, %v", v, err)
	}

	s.CompatVersion = ""
	v, err = s.CompatibilityVersion()
	if err != nil || v != collation.VersionLatest {
		t.Errorf("default CompatibilityVersion = %v, %v", v, err)
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	s := validSchema()
	data, err := MarshalSchema(s)
	if err != nil {
		t.Fatalf("MarshalSchema: %v", err)
	}
	got, err := UnmarshalSchema(data)
	if err != nil {
		t.Fatalf("UnmarshalSchema: %v", err)
	}
	if got.FieldID("title_sort") != 2 {
		t.Errorf("FieldID(title_sort) = %d", got.FieldID("title_sort"))
	}
	if got.Fields[3].Locale != "de" || !got.Fields[3].IgnoreCase {
		t.Errorf("collated field options lost: %+v", got.Fields[3])
	}
}

func TestUnmarshalSchemaCorrupt(t *testing.T) {
	s := validSchema()
	data, err := MarshalSchema(s)
	if err != nil {
		t.Fatalf("MarshalSchema: %v", err)
	}
	tampered := bytes.Replace(data, []byte("title_sort"), []byte("title_SORT"), 1)
	if _, err := UnmarshalSchema(tampered); !errors.Is(err, ErrSchemaCorrupt) {
		t.Errorf("UnmarshalSchema on tampered data: %v, want ErrSchemaCorrupt", err)
	}
}

func TestWriteLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := WriteSchema(path, validSchema()); err != nil {
		t.Fatalf("WriteSchema: %v", err)
	}
	got, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if len(got.Fields) != 5 {
		t.Errorf("loaded %d fields, want 5", len(got.Fields))
	}
}

func TestBuildRegistry(t *testing.T) {
	s := validSchema()
	r, err := s.BuildRegistry()
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	a, err := r.Get(CollatedAnalyzerName("title_sort"))
	if err != nil {
		t.Fatalf("Get collated analyzer: %v", err)
	}
	tokens := a.Analyze("title_sort", "whole field value")
	if len(tokens) != 1 {
		t.Errorf("collated analyzer produced %d tokens, want 1", len(tokens))
	}

	// Case-insensitive German field: keys for case variants collide.
	de, err := r.Get(CollatedAnalyzerName("name_de"))
	if err != nil {
		t.Fatalf("Get name_de analyzer: %v", err)
	}
	t1 := de.Analyze("name_de", "Müller")[0].Term
	t2 := de.Analyze("name_de", "müller")[0].Term
	if !bytes.Equal(t1, t2) {
		t.Error("ignore_case collated field produced different terms for case variants")
	}

	// Built-ins still present.
	if _, err := r.Get(AnalyzerStandard); err != nil {
		t.Errorf("standard analyzer missing: %v", err)
	}
}

func TestBuildRegistryBadLocale(t *testing.T) {
	s := validSchema()
	s.Fields[2].Locale = "!!"
	if _, err := s.BuildRegistry(); err == nil {
		t.Error("BuildRegistry with bad locale succeeded")
	}
}
