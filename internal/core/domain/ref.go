package domain

import (
	"crypto/sha256"
	"encoding/hex"

	"go.trai.ch/zerr"
)

// Ref is a content hash: the lowercase hex SHA-256 of a stored blob.
// It is a lookup key only; bytes are resolved through ports.ObjectStore.
type Ref string

const refLen = sha256.Size * 2

// HashContent returns the Ref of data.
func HashContent(data []byte) Ref {
	sum := sha256.Sum256(data)
	return Ref(hex.EncodeToString(sum[:]))
}

// ParseRef validates s as a Ref.
func ParseRef(s string) (Ref, error) {
	if len(s) != refLen {
		return "", zerr.With(zerr.Wrap(ErrInvalidRef, "wrong length"), "ref", s)
	}
	for i := range len(s) {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", zerr.With(zerr.Wrap(ErrInvalidRef, "not lowercase hex"), "ref", s)
		}
	}
	return Ref(s), nil
}

// String returns the hex form.
func (r Ref) String() string { return string(r) }

// IsZero reports whether the ref is empty.
func (r Ref) IsZero() bool { return r == "" }

// Short returns the first 12 hex characters, for display.
func (r Ref) Short() string {
	if len(r) < 12 {
		return string(r)
	}
	return string(r[:12])
}
