// Package collation produces locale-ordered binary keys for strings and
// decides how those keys are stored as index terms.
//
// Keys are comparable only against keys from an identical collator
// configuration (same locale, same options, same collation table
// version). Nothing here detects a mismatch; an index should record its
// collator configuration and refuse queries made under another one.
package collation

import (
	"fmt"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// KeySource produces the collation key for a string. Keys from one
// source are bytewise comparable in the source's intended linguistic
// order. Implementations shared across goroutines must be safe for
// concurrent use; LocaleKeySource is, caller-supplied sources carry
// their own obligation.
type KeySource interface {
	Key(text string) []byte
}

// Options configures a locale collator. The zero value is the locale's
// default tailoring.
type Options struct {
	IgnoreCase       bool
	IgnoreDiacritics bool
	Numeric          bool
}

func (o Options) collate() []collate.Option {
	var opts []collate.Option
	if o.IgnoreCase {
		opts = append(opts, collate.IgnoreCase)
	}
	if o.IgnoreDiacritics {
		opts = append(opts, collate.IgnoreDiacritics)
	}
	if o.Numeric {
		opts = append(opts, collate.Numeric)
	}
	return opts
}

// LocaleKeySource derives keys from an x/text collator.
//
// collate.Collator mutates internal iterator state on every call and the
// key buffer is reused, so key generation is serialized with a mutex.
// For contended multi-goroutine indexing, give each worker its own
// source.
type LocaleKeySource struct {
	mu  sync.Mutex
	col *collate.Collator
	buf collate.Buffer
}

// NewLocaleKeySource builds a key source for the given BCP 47 locale.
func NewLocaleKeySource(locale string, opts Options) (*LocaleKeySource, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &LocaleKeySource{col: collate.New(tag, opts.collate()...)}, nil
}

// NewTagKeySource builds a key source for an already parsed tag.
func NewTagKeySource(tag language.Tag, opts Options) *LocaleKeySource {
	return &LocaleKeySource{col: collate.New(tag, opts.collate()...)}
}

// Key returns the collation key for text. The returned slice is a copy;
// the caller owns it.
func (s *LocaleKeySource) Key(text string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Reset()
	key := s.col.KeyFromString(&s.buf, text)
	out := make([]byte, len(key))
	copy(out, key)
	return out
}
