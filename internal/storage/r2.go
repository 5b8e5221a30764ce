// internal/storage/r2.go
package storage

import (
	"bytes"
	"context"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/theruads/fleet-backend/internal/config"
)

// R2Store talks to Cloudflare R2 through its S3-compatible API.
type R2Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
}

func NewR2Store(cfg config.Config) (*R2Store, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.R2Endpoint, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		Secure: !strings.HasPrefix(cfg.R2Endpoint, "http://"),
		Region: "auto",
	})
	if err != nil {
		return nil, err
	}

	return &R2Store{
		client:    client,
		bucket:    cfg.R2Bucket,
		publicURL: cfg.R2PublicURL,
		expiry:    cfg.SignedURLExpiry,
	}, nil
}

func (s *R2Store) Upload(ctx context.Context, campaignID, fileName, contentType string, content []byte) (*UploadResult, error) {
	checksum := Checksum(content)
	key := ObjectKey(campaignID, fileName, checksum, time.Now())

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"campaign_id": campaignID,
			"checksum":    checksum,
		},
	})
	if err != nil {
		return nil, err
	}

	log.Println("✅ Uploaded to R2:", key)
	return &UploadResult{
		Key:      key,
		FileURL:  s.PublicURL(key),
		Checksum: checksum,
		Size:     int64(len(content)),
	}, nil
}

func (s *R2Store) SignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *R2Store) PublicURL(key string) string {
	return s.publicURL + "/" + key
}

func (s *R2Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return err
	}
	log.Println("🗑️ Deleted from R2:", key)
	return nil
}

var _ ObjectStore = (*R2Store)(nil)
