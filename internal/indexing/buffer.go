package indexing

import (
	"errors"
	"sort"
	"sync/atomic"
)

// Buffer limits.
const (
	DefaultBufferMemoryLimit = 64 * 1024 * 1024 // 64MB
	DefaultMaxDocsPerSegment = 100_000
)

var (
	ErrBufferFull      = errors.New("write buffer memory limit reached")
	ErrDuplicateDoc    = errors.New("duplicate document ID in buffer")
	ErrWriterNotActive = errors.New("writer is not active")
)

// PostingEntry represents a single posting for a term in a field.
type PostingEntry struct {
	DocID     uint32
	Freq      uint32
	Positions []uint32
}

// PostingsList accumulates postings for a single term in a single field.
type PostingsList struct {
	Entries []PostingEntry
}

// WriteBuffer accumulates documents before commit.
//
// Terms are arbitrary byte sequences (collation keys included), held as
// map keys via string conversion; the index compares and orders them
// bytewise, never as text.
type WriteBuffer struct {
	// invertedIndex: field → term bytes → postings list
	InvertedIndex map[string]map[string]*PostingsList

	// storedFields: docID → field → value
	StoredFields map[uint32]map[string][]byte

	// externalToInternal maps external doc IDs to internal doc IDs.
	ExternalToInternal map[string]uint32

	// Deletions tracks external IDs marked for deletion.
	Deletions map[string]bool

	NextDocID uint32
	DocCount  int
	TermCount int

	memoryUsed  atomic.Int64
	MemoryLimit int64
	MaxDocs     int
}

// NewWriteBuffer creates a new empty write buffer.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{
		InvertedIndex:      make(map[string]map[string]*PostingsList),
		StoredFields:       make(map[uint32]map[string][]byte),
		ExternalToInternal: make(map[string]uint32),
		Deletions:          make(map[string]bool),
		MemoryLimit:        DefaultBufferMemoryLimit,
		MaxDocs:            DefaultMaxDocsPerSegment,
	}
}

// AddPosting adds a posting entry for the given field and term bytes.
func (b *WriteBuffer) AddPosting(field string, term []byte, docID uint32, freq uint32, positions []uint32) {
	fieldMap, ok := b.InvertedIndex[field]
	if !ok {
		fieldMap = make(map[string]*PostingsList)
		b.InvertedIndex[field] = fieldMap
	}

	key := string(term)
	pl, ok := fieldMap[key]
	if !ok {
		pl = &PostingsList{}
		fieldMap[key] = pl
		b.TermCount++
	}

	pl.Entries = append(pl.Entries, PostingEntry{
		DocID:     docID,
		Freq:      freq,
		Positions: positions,
	})

	// Approximate memory tracking.
	b.memoryUsed.Add(int64(16 + len(term) + len(positions)*4))
}

// SortedTerms returns the field's terms in bytewise order — the order a
// segment writer must emit them in, and the order range queries over
// collated terms rely on.
func (b *WriteBuffer) SortedTerms(field string) [][]byte {
	fieldMap, ok := b.InvertedIndex[field]
	if !ok {
		return nil
	}
	terms := make([][]byte, 0, len(fieldMap))
	for t := range fieldMap {
		terms = append(terms, []byte(t))
	}
	sort.Slice(terms, func(i, j int) bool {
		return string(terms[i]) < string(terms[j])
	})
	return terms
}

// Postings returns the postings list for a field/term pair, or nil.
func (b *WriteBuffer) Postings(field string, term []byte) *PostingsList {
	fieldMap, ok := b.InvertedIndex[field]
	if !ok {
		return nil
	}
	return fieldMap[string(term)]
}

// StoreField stores a field value for a document.
func (b *WriteBuffer) StoreField(docID uint32, field string, value []byte) {
	fields, ok := b.StoredFields[docID]
	if !ok {
		fields = make(map[string][]byte)
		b.StoredFields[docID] = fields
	}
	fields[field] = value
	b.memoryUsed.Add(int64(len(value) + len(field)))
}

// AllocateDocID assigns an internal doc ID for an external ID.
// Returns an error if the external ID is already in the buffer.
func (b *WriteBuffer) AllocateDocID(externalID string) (uint32, error) {
	if _, exists := b.ExternalToInternal[externalID]; exists {
		return 0, ErrDuplicateDoc
	}

	docID := b.NextDocID
	b.NextDocID++
	b.DocCount++
	b.ExternalToInternal[externalID] = docID
	return docID, nil
}

// MarkDeleted records an external ID for deletion at commit time.
func (b *WriteBuffer) MarkDeleted(externalID string) {
	b.Deletions[externalID] = true
}

// MemoryUsed returns the approximate memory used by the buffer.
func (b *WriteBuffer) MemoryUsed() int64 {
	return b.memoryUsed.Load()
}

// IsFull returns true if the buffer reached its memory or document limit.
func (b *WriteBuffer) IsFull() bool {
	return b.MemoryUsed() >= b.MemoryLimit || b.DocCount >= b.MaxDocs
}

// Reset discards all buffered state.
func (b *WriteBuffer) Reset() {
	b.InvertedIndex = make(map[string]map[string]*PostingsList)
	b.StoredFields = make(map[uint32]map[string][]byte)
	b.ExternalToInternal = make(map[string]uint32)
	b.Deletions = make(map[string]bool)
	b.NextDocID = 0
	b.DocCount = 0
	b.TermCount = 0
	b.memoryUsed.Store(0)
}
