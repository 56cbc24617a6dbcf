package objects

import "go.trai.ch/facet/internal/core/domain"

// Source is a file blob. Its ref is the hash of its contents.
type Source struct {
	contents []byte
}

// NewSource wraps contents.
func NewSource(contents []byte) *Source {
	return &Source{contents: contents}
}

// Contents returns the blob bytes.
func (s *Source) Contents() []byte { return s.contents }

// ToObject returns the raw bytes.
func (s *Source) ToObject() any { return s.contents }

// ToBuffer returns the raw bytes.
func (s *Source) ToBuffer() ([]byte, error) { return s.contents, nil }

// ID returns the contents, so Hash(s) equals domain.HashContent(contents).
func (s *Source) ID() string { return string(s.contents) }

// Refs returns nil; a blob owns nothing.
func (s *Source) Refs() []domain.Ref { return nil }

// Kind returns KindSource.
func (s *Source) Kind() Kind { return KindSource }
