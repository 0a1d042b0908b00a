package minio

import (
	"context"
	"fmt"
	"bytes"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pomgrid/pomgrid/internal/config"
)

// Client wraps object storage for uploaded source archives and workspace
// snapshots. Archives live under archives/, snapshots under snapshots/.
type Client struct {
	mc     *minio.Client
	bucket string
}

func NewClient(cfg config.MinIOConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveKey returns the object key for a project's uploaded source archive.
func ArchiveKey(projectID string) string {
	return "archives/" + projectID + ".zip"
}

// SnapshotKey returns the object key for one import run's workspace snapshot.
func SnapshotKey(projectID, runID string) string {
	return "snapshots/" + projectID + "/" + runID + ".json"
}

func (c *Client) UploadArchive(ctx context.Context, projectID string, reader io.Reader, size int64) (string, error) {
	key := ArchiveKey(projectID)
	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}
	return key, nil
}

func (c *Client) DownloadArchive(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	stat, err := c.mc.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("stat archive: %w", err)
	}
	obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("download archive: %w", err)
	}
	return obj, stat.Size, nil
}

func (c *Client) UploadSnapshot(ctx context.Context, projectID, runID string, data []byte) (string, error) {
	key := SnapshotKey(projectID, runID)
	_, err := c.mc.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return key, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}
