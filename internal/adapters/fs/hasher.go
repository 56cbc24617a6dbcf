package fs

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash fingerprints of snapshot inputs.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the component record, then every input path and its content hash.
// The message is not part of the fingerprint.
func (h *Hasher) Fingerprint(manifest *domain.Manifest) (string, error) {
	hasher := xxhash.New()

	record, err := json.Marshal(manifest.Component)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode component record")
	}
	_, _ = hasher.Write(record)
	_, _ = hasher.Write([]byte{0})

	if err := h.hashSection(hasher, manifest.Dir, manifest.Files); err != nil {
		return "", err
	}
	if err := h.hashSection(hasher, manifest.Dir, manifest.Dists); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashSection(hasher *xxhash.Digest, dir string, paths []string) error {
	for _, rel := range paths {
		_, _ = hasher.WriteString(rel)
		_, _ = hasher.Write([]byte{0})

		sum, err := h.ComputeFileHash(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
			return zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	_, _ = hasher.Write([]byte{0})
	return nil
}
