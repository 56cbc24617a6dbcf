// Package objects implements the content-addressed object model: sources, versions and their envelope.
package objects

import (
	"bytes"
	"fmt"
	"strconv"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// Kind names the type of a stored object.
type Kind string

const (
	// KindSource is a raw file blob.
	KindSource Kind = "source"
	// KindVersion is a component version record.
	KindVersion Kind = "version"
)

// ContentAddressable is implemented by every persisted object.
type ContentAddressable interface {
	// ToObject returns the canonical object form.
	ToObject() any
	// ToBuffer serializes the canonical object form.
	ToBuffer() ([]byte, error)
	// ID returns the identity string the object's hash is computed from.
	ID() string
	// Refs returns the blobs the object owns, for reachability.
	Refs() []domain.Ref
	// Kind names the object type in the envelope.
	Kind() Kind
}

// Hash returns the content hash of obj.
func Hash(obj ContentAddressable) domain.Ref {
	return domain.HashContent([]byte(obj.ID()))
}

// Encode wraps payload in the "<kind> <len>\x00" envelope.
func Encode(kind Kind, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	return append(out, payload...)
}

// Decode splits an envelope into its kind and payload.
func Decode(data []byte) (Kind, []byte, error) {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 {
		return "", nil, zerr.Wrap(domain.ErrMalformedObject, "missing header terminator")
	}

	kind, size, ok := bytes.Cut(data[:nul], []byte(" "))
	if !ok || len(kind) == 0 {
		return "", nil, zerr.Wrap(domain.ErrMalformedObject, "malformed header")
	}

	n, err := strconv.Atoi(string(size))
	if err != nil {
		return "", nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrMalformedObject, err), "header", string(data[:nul]))
	}

	payload := data[nul+1:]
	if n != len(payload) {
		err := zerr.With(zerr.Wrap(domain.ErrMalformedObject, "length mismatch"), "declared", n)
		return "", nil, zerr.With(err, "actual", len(payload))
	}

	return Kind(kind), payload, nil
}
