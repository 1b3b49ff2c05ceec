package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"GoCollate/internal/analysis"
	"GoCollate/internal/collation"
	"GoCollate/internal/storage"

	"golang.org/x/text/language"
)

// Field type constants.
const (
	FieldTypeText       = "text"
	FieldTypeKeyword    = "keyword"
	FieldTypeCollated   = "collated"
	FieldTypeStoredOnly = "stored_only"
)

// Analyzer constants.
const (
	AnalyzerStandard   = "standard"
	AnalyzerWhitespace = "whitespace"
	AnalyzerKeyword    = "keyword"
)

// Schema limits.
const (
	MaxFieldsPerSchema = 256
	MaxFieldNameLength = 255
)

// Reserved field names that cannot be used in user schemas.
var reservedFieldNames = map[string]bool{
	"_id":     true,
	"_score":  true,
	"_source": true,
}

var (
	ErrSchemaCorrupt          = errors.New("schema checksum verification failed")
	ErrSchemaFieldLimit       = errors.New("schema exceeds maximum field count")
	ErrSchemaReservedField    = errors.New("field name is reserved")
	ErrSchemaDuplicateField   = errors.New("duplicate field name")
	ErrSchemaInvalidType      = errors.New("invalid field type")
	ErrSchemaInvalidAnalyzer  = errors.New("invalid analyzer")
	ErrSchemaFieldNameTooLong = errors.New("field name exceeds maximum length")
	ErrSchemaMissingAnalyzer  = errors.New("text field requires an analyzer")
	ErrSchemaMissingLocale    = errors.New("collated field requires a locale")
	ErrSchemaInvalidLocale    = errors.New("invalid locale tag")
)

// Schema represents the immutable schema definition for an index.
//
// CompatVersion fixes the stored format of collated terms for the whole
// index. It is written into the schema file so that reopening the index
// keeps producing terms comparable with the ones already on disk.
type Schema struct {
	Version         uint32           `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	Fields          []FieldDef       `json:"fields"`
	DefaultAnalyzer string           `json:"default_analyzer"`
	CompatVersion   string           `json:"compat_version,omitempty"`
	Checksum        storage.Checksum `json:"checksum"`
}

// FieldDef defines a single field in the schema.
//
// Collated fields set Locale (BCP 47) and optionally the collation
// flags; they index exactly one term per value and never record
// positions.
type FieldDef struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Analyzer    string `json:"analyzer,omitempty"`
	Stored      bool   `json:"stored"`
	Indexed     bool   `json:"indexed"`
	Positions   bool   `json:"positions,omitempty"`
	MultiValued bool   `json:"multi_valued,omitempty"`

	Locale           string `json:"locale,omitempty"`
	IgnoreCase       bool   `json:"ignore_case,omitempty"`
	IgnoreDiacritics bool   `json:"ignore_diacritics,omitempty"`
	Numeric          bool   `json:"numeric,omitempty"`
}

// CollationOptions maps the field's flags to collator options.
func (f *FieldDef) CollationOptions() collation.Options {
	return collation.Options{
		IgnoreCase:       f.IgnoreCase,
		IgnoreDiacritics: f.IgnoreDiacritics,
		Numeric:          f.Numeric,
	}
}

// CollatedAnalyzerName returns the registry name for a collated field's
// analyzer. Each collated field gets its own entry because locale and
// flags are per-field.
func CollatedAnalyzerName(field string) string {
	return "collated:" + field
}

// FieldID returns the field index for the given field name.
// Returns -1 if not found.
func (s *Schema) FieldID(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// CompatibilityVersion parses the schema's collated-term format marker.
// An absent marker means the latest format.
func (s *Schema) CompatibilityVersion() (collation.Version, error) {
	return collation.ParseVersion(s.CompatVersion)
}

// Validate checks the schema for correctness.
func (s *Schema) Validate() error {
	if len(s.Fields) > MaxFieldsPerSchema {
		return fmt.Errorf("%w: %d fields (max %d)", ErrSchemaFieldLimit, len(s.Fields), MaxFieldsPerSchema)
	}

	if _, err := s.CompatibilityVersion(); err != nil {
		return fmt.Errorf("compat_version: %w", err)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if reservedFieldNames[f.Name] {
			return fmt.Errorf("%w: %q", ErrSchemaReservedField, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %q", ErrSchemaDuplicateField, f.Name)
		}
		seen[f.Name] = true

		if len(f.Name) > MaxFieldNameLength {
			return fmt.Errorf("%w: %q (%d bytes, max %d)", ErrSchemaFieldNameTooLong, f.Name, len(f.Name), MaxFieldNameLength)
		}
		if err := validateFieldType(f.Type); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		if f.Analyzer != "" && f.Type != FieldTypeCollated {
			if err := validateAnalyzer(f.Analyzer); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}

		switch f.Type {
		case FieldTypeText:
			if f.Analyzer == "" {
				return fmt.Errorf("field %q: %w", f.Name, ErrSchemaMissingAnalyzer)
			}
		case FieldTypeCollated:
			if f.Locale == "" {
				return fmt.Errorf("field %q: %w", f.Name, ErrSchemaMissingLocale)
			}
			if _, err := language.Parse(f.Locale); err != nil {
				return fmt.Errorf("field %q: %w: %q", f.Name, ErrSchemaInvalidLocale, f.Locale)
			}
			if f.Positions {
				return fmt.Errorf("field %q: collated fields have a single term and no positions", f.Name)
			}
			if f.Analyzer != "" {
				return fmt.Errorf("field %q: collated fields derive their analyzer from the locale", f.Name)
			}
		case FieldTypeStoredOnly:
			if f.Indexed {
				return fmt.Errorf("field %q: stored_only fields cannot be indexed", f.Name)
			}
			if !f.Stored {
				return fmt.Errorf("field %q: stored_only fields must be stored", f.Name)
			}
		}
		if f.Positions && f.Type != FieldTypeText {
			return fmt.Errorf("field %q: positions only allowed on text fields", f.Name)
		}
	}

	if s.DefaultAnalyzer != "" {
		if err := validateAnalyzer(s.DefaultAnalyzer); err != nil {
			return fmt.Errorf("default_analyzer: %w", err)
		}
	}

	return nil
}

// BuildRegistry creates an analyzer registry with the built-in analyzers
// plus one collation analyzer per collated field, all locked to the
// schema's compatibility version.
func (s *Schema) BuildRegistry() (*analysis.Registry, error) {
	v, err := s.CompatibilityVersion()
	if err != nil {
		return nil, fmt.Errorf("compat_version: %w", err)
	}
	r := analysis.NewRegistry()
	for _, f := range s.Fields {
		if f.Type != FieldTypeCollated {
			continue
		}
		if err := r.RegisterCollated(CollatedAnalyzerName(f.Name), f.Locale, f.CollationOptions(), v); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return r, nil
}

// MarshalSchema serializes a schema to JSON and computes its checksum.
func MarshalSchema(s *Schema) ([]byte, error) {
	checksum, err := computeSchemaChecksum(s)
	if err != nil {
		return nil, fmt.Errorf("compute schema checksum: %w", err)
	}
	s.Checksum = checksum

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// UnmarshalSchema deserializes a schema from JSON and verifies its checksum.
func UnmarshalSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	savedChecksum := s.Checksum
	computed, err := computeSchemaChecksum(&s)
	if err != nil {
		return nil, fmt.Errorf("compute schema checksum for verification: %w", err)
	}
	if computed != savedChecksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrSchemaCorrupt, savedChecksum, computed)
	}

	return &s, nil
}

// WriteSchema atomically writes a schema file.
// The schema is immutable after creation.
func WriteSchema(path string, s *Schema) error {
	data, err := MarshalSchema(s)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := storage.AtomicWriteFile(path, data); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

// LoadSchema reads and verifies a schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return UnmarshalSchema(data)
}

func computeSchemaChecksum(s *Schema) (storage.Checksum, error) {
	saved := s.Checksum
	s.Checksum = ""
	defer func() { s.Checksum = saved }()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal for checksum: %w", err)
	}
	return storage.ComputeChecksum(data), nil
}

func validateFieldType(t string) error {
	switch t {
	case FieldTypeText, FieldTypeKeyword, FieldTypeCollated, FieldTypeStoredOnly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrSchemaInvalidType, t)
	}
}

func validateAnalyzer(a string) error {
	switch a {
	case AnalyzerStandard, AnalyzerWhitespace, AnalyzerKeyword:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrSchemaInvalidAnalyzer, a)
	}
}
