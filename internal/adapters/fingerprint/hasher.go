package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"curator/internal/ports"
)

// DefaultSampleSize bounds how much of a large file is read when
// fingerprinting. 8KB keeps fingerprinting O(1) in file size.
const DefaultSampleSize = 8192

// Hasher implements ports.Fingerprinter with a sampled SHA-256 scheme:
// small files are hashed in full; large files hash the first SampleSize
// bytes plus the file size and modification time, so the fingerprint
// still changes when any of those do.
type Hasher struct {
	sampleSize int64
	now        func() time.Time
}

var _ ports.Fingerprinter = (*Hasher)(nil)

// Option configures the Hasher.
type Option func(*Hasher)

// WithSampleSize overrides the full-hash cutoff.
func WithSampleSize(n int64) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.sampleSize = n
		}
	}
}

// WithClock overrides the clock used for fallback fingerprints (tests).
func WithClock(now func() time.Time) Option {
	return func(h *Hasher) { h.now = now }
}

// NewHasher creates a Hasher with the default sample size.
func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{
		sampleSize: DefaultSampleSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fingerprint hashes the content at path. It never fails: on any I/O
// error it degrades to a digest of the path plus the current time, which
// is unique but carries no duplicate-detection guarantee.
func (h *Hasher) Fingerprint(path string) (string, bool) {
	fp, err := h.contentHash(path)
	if err != nil {
		return h.fallback(path), false
	}
	return fp, true
}

func (h *Hasher) contentHash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest := sha256.New()

	if info.Size() <= h.sampleSize {
		if _, err := io.Copy(digest, f); err != nil {
			return "", err
		}
		return hex.EncodeToString(digest.Sum(nil)), nil
	}

	// Sample ++ decimal size ++ decimal mtime millis.
	if _, err := io.CopyN(digest, f, h.sampleSize); err != nil {
		return "", err
	}
	digest.Write([]byte(strconv.FormatInt(info.Size(), 10)))
	digest.Write([]byte(strconv.FormatInt(info.ModTime().UnixMilli(), 10)))

	return hex.EncodeToString(digest.Sum(nil)), nil
}

func (h *Hasher) fallback(path string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s%d", path, h.now().UnixMilli()))
	return hex.EncodeToString(sum[:])
}
