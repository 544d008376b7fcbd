// Package storage stores beat asset files in an S3-compatible object store
// and hands out short-lived download URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"beatstore/config"
	"beatstore/logger"
	"beatstore/model"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DownloadURLValidity is how long a presigned asset download link stays
// usable.
const DownloadURLValidity = time.Hour

var assetClient *AssetStore

// AssetStore wraps the object-store client and the configured bucket.
type AssetStore struct {
	client *minio.Client
	bucket string
}

// InitAssetStore connects to the object store and ensures the bucket
// exists.
func InitAssetStore(cfg *config.Config) error {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.StorageBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{Region: cfg.StorageRegion}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.StorageBucket, err)
		}
		logger.Info("created asset bucket", logger.String("bucket", cfg.StorageBucket))
	}

	assetClient = &AssetStore{client: client, bucket: cfg.StorageBucket}
	return nil
}

// GetAssetStore returns the shared store, or nil when InitAssetStore failed
// or was never called.
func GetAssetStore() *AssetStore {
	return assetClient
}

// objectKey builds the storage key for one uploaded file. The uuid suffix
// keeps repeated uploads of the same filename from colliding.
func objectKey(beatID string, tier model.Tier, filename string) string {
	return fmt.Sprintf("%s/%s/%s_%s", beatID, tier, uuid.NewString(), filename)
}

// UploadAsset stores one tier asset file and returns its object key, which
// is what beat records carry in their assets field.
func (s *AssetStore) UploadAsset(ctx context.Context, beatID string, tier model.Tier, filename, contentType string, reader io.Reader, size int64) (string, error) {
	key := objectKey(beatID, tier, filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", &model.ExternalServiceError{Service: "object store", Op: "upload", Err: err}
	}

	logger.Info("asset uploaded",
		logger.String("beatId", beatID),
		logger.String("tier", string(tier)),
		logger.String("key", key))
	return key, nil
}

// DownloadURL generates a presigned URL for one stored asset, valid for
// DownloadURLValidity.
func (s *AssetStore) DownloadURL(ctx context.Context, key string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, DownloadURLValidity, url.Values{})
	if err != nil {
		return "", &model.ExternalServiceError{Service: "object store", Op: "presign", Err: err}
	}
	return presigned.String(), nil
}

// RemoveBeatAssets deletes every stored asset of a beat, tier by tier. Each
// failure is logged and skipped; the returned count is how many objects
// were actually removed.
func (s *AssetStore) RemoveBeatAssets(ctx context.Context, beatID string, assets model.TierSet[[]string]) int {
	removed := 0
	for _, tier := range model.Tiers() {
		for _, key := range assets.Get(tier) {
			if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
				logger.Warn("failed to remove asset",
					logger.String("beatId", beatID),
					logger.String("key", key),
					logger.ErrorField(err))
				continue
			}
			removed++
		}
	}
	return removed
}
