// internal/storage/storage.go
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// UploadResult describes a stored creative file.
type UploadResult struct {
	Key      string
	FileURL  string
	Checksum string
	Size     int64
}

// ObjectStore is the blob storage collaborator. The R2 implementation lives
// in r2.go; tests inject fakes.
type ObjectStore interface {
	Upload(ctx context.Context, campaignID, fileName, contentType string, content []byte) (*UploadResult, error)
	SignedURL(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds the storage key for an uploaded creative:
// ads/{campaignID}/{timestamp}_{checksumPrefix}_{originalName}.
func ObjectKey(campaignID, fileName, checksum string, uploadedAt time.Time) string {
	ts := uploadedAt.UTC().Format("20060102_150405")
	return fmt.Sprintf("ads/%s/%s_%s_%s", campaignID, ts, checksum[:16], fileName)
}

// Checksum returns the hex sha256 of the file content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
