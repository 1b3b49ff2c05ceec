package collation

import "fmt"

// Version selects which on-disk term format an analyzer produces.
// Indexes built under one version must keep analyzing under it; changing
// the version silently changes the stored term bytes.
type Version int

const (
	// VersionOrderedEncoding stores collation keys through the
	// order-preserving code-unit encoding. This is the oldest format,
	// kept so terms in existing indexes stay comparable.
	VersionOrderedEncoding Version = 1

	// VersionRawKeyBytes stores collation key bytes directly as the
	// term. Preferred for new indexes.
	VersionRawKeyBytes Version = 2

	// VersionLatest is the format new indexes should use.
	VersionLatest = VersionRawKeyBytes
)

// OnOrAfter reports whether v is other or a later format.
func (v Version) OnOrAfter(other Version) bool {
	return v >= other
}

// Valid reports whether v names a known term format.
func (v Version) Valid() bool {
	return v >= VersionOrderedEncoding && v <= VersionLatest
}

func (v Version) String() string {
	switch v {
	case VersionOrderedEncoding:
		return "ordered_encoding"
	case VersionRawKeyBytes:
		return "raw_key_bytes"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// ParseVersion maps a schema string to a Version.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "ordered_encoding":
		return VersionOrderedEncoding, nil
	case "raw_key_bytes":
		return VersionRawKeyBytes, nil
	case "":
		return VersionLatest, nil
	default:
		return 0, fmt.Errorf("unknown compatibility version %q", s)
	}
}
