package ports

// Fingerprinter turns a filesystem path into a stable content fingerprint.
type Fingerprinter interface {
	// Fingerprint never fails: on I/O errors it returns a synthetic
	// fingerprint that carries no duplicate-detection guarantee, with
	// trusted = false so callers can treat it as unique.
	Fingerprint(path string) (fingerprint string, trusted bool)
}
