package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"r2-explorer/core/utils"

	"github.com/minio/minio-go/v7"
)

// ObjectClient performs bucket and object operations for one account.
// Every failure is returned as an *Error; nothing is retried.
type ObjectClient struct {
	client    Client
	accountID string
}

// New builds an ObjectClient for the account described by creds.
// It does not contact the endpoint; use ValidateCredentials for that.
func New(cfg Config, creds Credentials) (*ObjectClient, error) {
	client, err := NewClient(cfg, creds)
	if err != nil {
		return nil, err
	}
	return NewObjectClient(client, creds.AccountID), nil
}

// NewObjectClient wraps an existing low-level client.
func NewObjectClient(client Client, accountID string) *ObjectClient {
	return &ObjectClient{client: client, accountID: accountID}
}

// AccountID returns the remote tenant the client is bound to.
func (c *ObjectClient) AccountID() string {
	return c.accountID
}

// ValidateCredentials issues a harmless list-buckets request and reports
// whether the endpoint accepted the credentials.
func (c *ObjectClient) ValidateCredentials(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// ListBuckets returns the account's buckets in a single request.
func (c *ObjectClient) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	raw, err := c.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError(err, "failed to list buckets")
	}

	buckets := make([]BucketInfo, 0, len(raw))
	for _, b := range raw {
		info := BucketInfo{Name: b.Name}
		if created := formatTime(b.CreationDate); created != "" {
			info.CreationDate = &created
		}
		buckets = append(buckets, info)
	}
	return buckets, nil
}

// CreateBucket creates bucket. Duplicate creation surfaces as the remote error.
func (c *ObjectClient) CreateBucket(ctx context.Context, bucket string) error {
	if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return mapError(err, "failed to create bucket "+bucket)
	}
	return nil
}

// DeleteBucket deletes bucket. The remote rejects non-empty buckets.
func (c *ObjectClient) DeleteBucket(ctx context.Context, bucket string) error {
	if err := c.client.RemoveBucket(ctx, bucket); err != nil {
		return mapError(err, "failed to delete bucket "+bucket)
	}
	return nil
}

// GetBucketInfo probes bucket for existence. The probe carries no creation
// date. A missing bucket yields ErrKindBucketNotFound; transport and
// credential failures keep their own kinds.
func (c *ObjectClient) GetBucketInfo(ctx context.Context, bucket string) (BucketInfo, error) {
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return BucketInfo{}, mapError(err, "failed to probe bucket "+bucket)
	}
	if !exists {
		return BucketInfo{}, newError(ErrKindBucketNotFound, bucket)
	}
	return BucketInfo{Name: bucket}, nil
}

// PutObject uploads data as a single whole-body request.
func (c *ObjectClient) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return mapError(err, "failed to put object "+key)
	}
	return nil
}

// CreateFolder materializes a folder as a zero-byte object whose key ends in "/".
func (c *ObjectClient) CreateFolder(ctx context.Context, bucket, path string) error {
	return c.PutObject(ctx, bucket, utils.EnsureTrailingSlash(path), []byte{}, "")
}

// GetObject downloads the whole object into memory.
func (c *ObjectClient) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	rc, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object "+key)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, mapError(err, "failed to read object "+key)
	}
	return data, nil
}

// DeleteObject deletes a single key.
func (c *ObjectClient) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := c.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapError(err, "failed to delete object "+key)
	}
	return nil
}

// DeleteObjects removes keys with batched delete requests. An empty key list
// succeeds without contacting the endpoint. The first per-key failure fails
// the whole call.
func (c *ObjectClient) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var firstErr error
	failed := 0
	for rerr := range c.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err == nil {
			continue
		}
		failed++
		if firstErr == nil {
			firstErr = rerr.Err
		}
	}
	if firstErr != nil {
		return mapError(firstErr, fmt.Sprintf("failed to delete %d of %d objects", failed, len(keys)))
	}
	return nil
}

// MaxPresignExpiry is the longest validity a presigned URL may carry.
const MaxPresignExpiry = 7 * 24 * 60 * 60

// PresignedURL returns a download URL valid for expiresIn seconds.
func (c *ObjectClient) PresignedURL(ctx context.Context, bucket, key string, expiresIn uint64) (string, error) {
	if expiresIn > MaxPresignExpiry {
		return "", newError(ErrKindSdk, fmt.Sprintf("expiry of %d seconds exceeds the maximum of %d", expiresIn, MaxPresignExpiry))
	}
	u, err := c.client.PresignedGetObject(ctx, bucket, key, time.Duration(expiresIn)*time.Second, nil)
	if err != nil {
		return "", mapError(err, "failed to presign "+key)
	}
	return u.String(), nil
}
