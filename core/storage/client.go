package storage

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client defines the low-level S3 operations the ObjectClient is built on.
type Client interface {
	// ListBuckets lists all buckets of the account.
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// MakeBucket creates a new bucket.
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	// RemoveBucket deletes an empty bucket.
	RemoveBucket(ctx context.Context, bucketName string) error
	// ListObjectsPage fetches one delimiter-grouped page of a ListObjectsV2 listing.
	ListObjectsPage(ctx context.Context, bucketName, prefix, continuationToken, delimiter string, maxKeys int) (minio.ListBucketV2Result, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject downloads an object.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	// RemoveObject deletes an object from a bucket.
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	// RemoveObjects deletes multiple objects from a bucket using batched delete requests.
	// objectsCh is a channel of object names to delete.
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
	// PresignedGetObject signs a time-limited download URL without contacting the service.
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Endpoint expands the endpoint template for accountID.
func Endpoint(template, accountID string) string {
	if template == "" {
		template = DefaultEndpointTemplate
	}
	return strings.ReplaceAll(template, "{account_id}", accountID)
}

// normalizeEndpoint strips the scheme minio does not accept. A scheme wins over useSSL.
func normalizeEndpoint(endpoint string, useSSL bool) (host string, secure bool) {
	secure = useSSL
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if u, err := url.Parse(endpoint); err == nil {
			return u.Host, u.Scheme == "https"
		}
	}
	return endpoint, secure
}

// NewClient creates a minio client bound to one account's endpoint with static
// credentials, path-style addressing and retries disabled.
func NewClient(cfg Config, creds Credentials) (Client, error) {
	if strings.TrimSpace(creds.AccountID) == "" {
		return nil, newError(ErrKindCredentials, "account id is required")
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, newError(ErrKindCredentials, "access key id and secret access key are required")
	}

	endpoint, secure := normalizeEndpoint(Endpoint(cfg.EndpointTemplate, creds.AccountID), cfg.UseSSL)

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(creds.AccessKeyID, creds.SecretAccessKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
		Transport:    transport,
		MaxRetries:   1,
	})
	if err != nil {
		return nil, wrapError(ErrKindCredentials, "failed to configure client for account "+creds.AccountID, err)
	}
	// minio connects lazily; nothing has been sent to the endpoint yet.

	return &minioClientWrapper{Client: minioClient}, nil
}

type minioClientWrapper struct {
	*minio.Client
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

// ListObjectsPage uses the single-request Core API so that common prefixes
// stay separate from contents. Core does not take a context, so cancellation
// is only checked before the request is sent.
func (c *minioClientWrapper) ListObjectsPage(ctx context.Context, bucketName, prefix, continuationToken, delimiter string, maxKeys int) (minio.ListBucketV2Result, error) {
	if err := ctx.Err(); err != nil {
		return minio.ListBucketV2Result{}, err
	}
	core := minio.Core{Client: c.Client}
	return core.ListObjectsV2(bucketName, prefix, "", continuationToken, delimiter, maxKeys)
}
