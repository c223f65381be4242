package storage_test

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"r2-explorer/core/storage"
	"r2-explorer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListBuckets(t *testing.T) {
	m := new(mocks.Client)
	client := storage.NewObjectClient(m, "acct")

	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	m.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{
		{Name: "photos", CreationDate: created},
		{Name: "backups"},
	}, nil)

	buckets, err := client.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "photos", buckets[0].Name)
	require.NotNil(t, buckets[0].CreationDate)
	assert.Equal(t, "2023-01-02T03:04:05Z", *buckets[0].CreationDate)
	assert.Nil(t, buckets[1].CreationDate)
}

func TestValidateCredentials(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
		assert.NoError(t, storage.NewObjectClient(m, "acct").ValidateCredentials(context.Background()))
	})

	t.Run("Rejected", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListBuckets", mock.Anything).Return(nil, minio.ErrorResponse{Code: "InvalidAccessKeyId", StatusCode: 403})
		err := storage.NewObjectClient(m, "acct").ValidateCredentials(context.Background())
		assert.True(t, storage.IsCredentials(err))
	})
}

func TestBucketLifecycle(t *testing.T) {
	m := new(mocks.Client)
	client := storage.NewObjectClient(m, "acct")
	ctx := context.Background()

	m.On("MakeBucket", mock.Anything, "new", minio.MakeBucketOptions{}).Return(nil)
	m.On("RemoveBucket", mock.Anything, "full").Return(minio.ErrorResponse{Code: "BucketNotEmpty", StatusCode: 409, Message: "The bucket you tried to delete is not empty"})

	assert.NoError(t, client.CreateBucket(ctx, "new"))

	err := client.DeleteBucket(ctx, "full")
	require.Error(t, err)
	assert.Equal(t, storage.ErrKindSdk, storage.KindOf(err))
	assert.Contains(t, err.Error(), "not empty")
}

func TestGetBucketInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "photos").Return(true, nil)

		info, err := storage.NewObjectClient(m, "acct").GetBucketInfo(ctx, "photos")
		require.NoError(t, err)
		assert.Equal(t, "photos", info.Name)
		assert.Nil(t, info.CreationDate)
	})

	t.Run("Missing", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "nope").Return(false, nil)

		_, err := storage.NewObjectClient(m, "acct").GetBucketInfo(ctx, "nope")
		assert.True(t, storage.IsBucketNotFound(err))
	})

	t.Run("NetworkFailureIsNotNotFound", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "photos").
			Return(false, &url.Error{Op: "Head", URL: "https://acct.example/photos", Err: errors.New("no such host")})

		_, err := storage.NewObjectClient(m, "acct").GetBucketInfo(ctx, "photos")
		assert.False(t, storage.IsBucketNotFound(err))
		assert.True(t, storage.IsNetwork(err))
	})

	t.Run("CredentialFailureIsNotNotFound", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "photos").
			Return(false, minio.ErrorResponse{Code: minio.AccessDenied, StatusCode: 403})

		_, err := storage.NewObjectClient(m, "acct").GetBucketInfo(ctx, "photos")
		assert.True(t, storage.IsCredentials(err))
	})
}

func TestCreateFolder(t *testing.T) {
	for _, path := range []string{"docs", "docs/"} {
		t.Run(path, func(t *testing.T) {
			m := new(mocks.Client)
			client := storage.NewObjectClient(m, "acct")

			m.On("PutObject", mock.Anything, "bucket", "docs/", mock.Anything, int64(0), minio.PutObjectOptions{}).
				Return(minio.UploadInfo{}, nil)

			require.NoError(t, client.CreateFolder(context.Background(), "bucket", path))
			m.AssertExpectations(t)
		})
	}
}

func TestPutObject(t *testing.T) {
	m := new(mocks.Client)
	client := storage.NewObjectClient(m, "acct")

	var body []byte
	m.On("PutObject", mock.Anything, "bucket", "notes/a.txt", mock.Anything, int64(5), minio.PutObjectOptions{ContentType: "text/plain"}).
		Run(func(args mock.Arguments) {
			body, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	require.NoError(t, client.PutObject(context.Background(), "bucket", "notes/a.txt", []byte("hello"), "text/plain"))
	assert.Equal(t, "hello", string(body))
}

func TestGetObject(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", mock.Anything, "bucket", "a.txt", minio.GetObjectOptions{}).
			Return(io.NopCloser(strings.NewReader("content")), nil)

		data, err := storage.NewObjectClient(m, "acct").GetObject(context.Background(), "bucket", "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("MissingKeySurfacesOnRead", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", mock.Anything, "bucket", "gone.txt", minio.GetObjectOptions{}).
			Return(io.NopCloser(&failingReader{err: minio.ErrorResponse{Code: minio.NoSuchKey, StatusCode: 404}}), nil)

		_, err := storage.NewObjectClient(m, "acct").GetObject(context.Background(), "bucket", "gone.txt")
		assert.True(t, storage.IsObjectNotFound(err))
	})
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestDeleteObject(t *testing.T) {
	m := new(mocks.Client)
	m.On("RemoveObject", mock.Anything, "bucket", "a.txt", minio.RemoveObjectOptions{}).Return(nil)

	assert.NoError(t, storage.NewObjectClient(m, "acct").DeleteObject(context.Background(), "bucket", "a.txt"))
	m.AssertExpectations(t)
}

func TestDeleteObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyListMakesNoRequest", func(t *testing.T) {
		m := new(mocks.Client)
		client := storage.NewObjectClient(m, "acct")

		assert.NoError(t, client.DeleteObjects(ctx, "bucket", nil))
		assert.NoError(t, client.DeleteObjects(ctx, "bucket", []string{}))
		m.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SendsEveryKey", func(t *testing.T) {
		m := new(mocks.Client)
		client := storage.NewObjectClient(m, "acct")

		var sent []string
		m.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, minio.RemoveObjectsOptions{}).
			Run(func(args mock.Arguments) {
				for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
					sent = append(sent, obj.Key)
				}
			}).
			Return(nil)

		require.NoError(t, client.DeleteObjects(ctx, "bucket", []string{"a.txt", "b/", "b/c.txt"}))
		assert.Equal(t, []string{"a.txt", "b/", "b/c.txt"}, sent)
	})

	t.Run("FirstFailureFailsCall", func(t *testing.T) {
		m := new(mocks.Client)
		client := storage.NewObjectClient(m, "acct")

		results := make(chan minio.RemoveObjectError, 2)
		results <- minio.RemoveObjectError{ObjectName: "a.txt", Err: minio.ErrorResponse{Code: minio.AccessDenied, StatusCode: 403}}
		results <- minio.RemoveObjectError{ObjectName: "b.txt", Err: errors.New("internal")}
		close(results)

		m.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, minio.RemoveObjectsOptions{}).
			Return((<-chan minio.RemoveObjectError)(results))

		err := client.DeleteObjects(ctx, "bucket", []string{"a.txt", "b.txt", "c.txt"})
		require.Error(t, err)
		assert.True(t, storage.IsCredentials(err))
		assert.Contains(t, err.Error(), "failed to delete 2 of 3 objects")
	})
}

func TestPresignedURLErrors(t *testing.T) {
	m := new(mocks.Client)
	m.On("PresignedGetObject", mock.Anything, "bucket", "a.txt", 10*time.Minute, mock.Anything).
		Return(nil, errors.New("signing failed"))

	_, err := storage.NewObjectClient(m, "acct").PresignedURL(context.Background(), "bucket", "a.txt", 600)
	assert.Equal(t, storage.ErrKindSdk, storage.KindOf(err))
}
