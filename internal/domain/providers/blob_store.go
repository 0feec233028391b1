package providers

// BlobStore stores uploaded images content-addressed by SHA-256. Save is
// idempotent: re-saving identical bytes returns the same path and hash
// without error or duplication.
type BlobStore interface {
	Save(filename string, content []byte) (path string, sha256Hex string, err error)
}
