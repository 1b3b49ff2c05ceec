package analysis

import (
	"errors"
	"fmt"

	"GoCollate/internal/collation"
)

var ErrNilKeySource = errors.New("collation analyzer requires a key source")

// CollationKeyAnalyzer emits one token per field value whose term bytes
// are the value's collation key, formatted per the configured
// compatibility version. Bytewise term order equals the locale's
// linguistic order, which is what makes collated range and sort queries
// work on an otherwise order-ignorant index.
//
// The whole value is one token: collation is defined over whole strings,
// so splitting on word boundaries would produce keys that compare
// per-word instead of per-value.
//
// Both fields are fixed at construction; the analyzer itself is
// stateless and safe to share exactly when its KeySource is.
type CollationKeyAnalyzer struct {
	source  collation.KeySource
	version collation.Version
}

// NewCollationKeyAnalyzer creates an analyzer producing terms in the
// given format version. It fails fast on a nil source or unknown
// version rather than producing an analyzer that corrupts terms later.
func NewCollationKeyAnalyzer(v collation.Version, source collation.KeySource) (*CollationKeyAnalyzer, error) {
	if source == nil {
		return nil, ErrNilKeySource
	}
	if !v.Valid() {
		return nil, fmt.Errorf("unsupported compatibility version %d", int(v))
	}
	return &CollationKeyAnalyzer{source: source, version: v}, nil
}

// NewLegacyCollationKeyAnalyzer creates an analyzer using the oldest
// term format.
//
// Deprecated: supply the version explicitly with NewCollationKeyAnalyzer.
// This exists only for callers maintaining indexes that predate
// VersionRawKeyBytes.
func NewLegacyCollationKeyAnalyzer(source collation.KeySource) (*CollationKeyAnalyzer, error) {
	return NewCollationKeyAnalyzer(collation.VersionOrderedEncoding, source)
}

// Version returns the term format this analyzer writes.
func (a *CollationKeyAnalyzer) Version() collation.Version {
	return a.version
}

// Analyze returns exactly one token covering the whole input. Empty
// input still yields a token: the collator defines a key for "" and
// dropping it would make empty field values unqueryable.
func (a *CollationKeyAnalyzer) Analyze(_ string, text string) []Token {
	key := a.source.Key(text)
	return []Token{
		{
			Term:      collation.TermBytes(key, a.version),
			Position:  0,
			StartByte: 0,
			EndByte:   len(text),
		},
	}
}
