package collation

import "GoCollate/internal/encoding"

// TermBytes converts a collation key into the bytes stored as the index
// term under the given format version. On or after VersionRawKeyBytes
// the key is the term; before it, the key passes through the
// order-preserving code-unit encoding. Both forms compare bytewise in
// the same order as the keys themselves.
func TermBytes(key []byte, v Version) []byte {
	if v.OnOrAfter(VersionRawKeyBytes) {
		return key
	}
	return encoding.EncodeToBytes(key)
}

// KeyFromTerm recovers raw key bytes from a stored term. Consumers
// comparing or range-scanning terms never need this; it exists for
// diagnostics on legacy-format indexes.
func KeyFromTerm(term []byte, v Version) ([]byte, error) {
	if v.OnOrAfter(VersionRawKeyBytes) {
		return term, nil
	}
	return encoding.DecodeBytes(term)
}
