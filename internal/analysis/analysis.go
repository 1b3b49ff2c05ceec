package analysis

// Token represents a single token produced by an analyzer.
//
// Term holds the exact bytes the index stores and compares. For text
// analyzers this is the UTF-8 of the token text; for collation analyzers
// it is a binary key and may contain any byte value including zero.
type Token struct {
	Term      []byte
	Position  int
	StartByte int
	EndByte   int
}

// Analyzer processes text into a stream of tokens.
// Implementations MUST be safe for reuse across documents.
type Analyzer interface {
	// Analyze tokenizes the input text and returns tokens with positions.
	Analyze(field string, text string) []Token
}
