// Package storage is the file-storage sink behind /file/upload. Photos go
// into a single minio bucket; the returned path is the bucket-relative
// object name, stored on contacts as an opaque string.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/contacthub/contacthub/internal/config"
)

type PhotoStore struct {
	client *minio.Client
	bucket string
}

func NewPhotoStore(cfg *config.Config) (*PhotoStore, error) {
	client, err := minio.New(cfg.MINIO_ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MINIO_ACCESS_KEY, cfg.MINIO_SECRET_KEY, ""),
		Secure: cfg.MINIO_USE_SSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MINIO_BUCKET)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MINIO_BUCKET, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}

	return &PhotoStore{client: client, bucket: cfg.MINIO_BUCKET}, nil
}

// Save streams the uploaded file into the bucket under a random-suffixed
// object name and returns that name.
func (s *PhotoStore) Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	objectName, err := objectNameFor(header.Filename)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, header.Size, minio.PutObjectOptions{
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", fmt.Errorf("minio upload: %w", err)
	}
	return objectName, nil
}

// objectNameFor keeps the original base name and extension and inserts a
// short random suffix so repeated uploads of the same file never collide.
func objectNameFor(original string) (string, error) {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)

	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("contacts/%s-%s%s", base, hex.EncodeToString(buf), ext), nil
}
