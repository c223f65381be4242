package explorer

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"r2-explorer/core/credentials"
	"r2-explorer/core/storage"
	"r2-explorer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"
)

type testEnv struct {
	svc    *Service
	client *mocks.Client
	builds *atomic.Int32
	seen   *[]storage.Credentials
}

func setupService(t *testing.T, cacheClients bool) testEnv {
	t.Helper()
	keyring.MockInit()

	store := credentials.NewWithSecrets(
		filepath.Join(t.TempDir(), "config.json"),
		credentials.NewKeyringStore("r2-explorer-test"),
		zap.NewNop(),
	)

	client := new(mocks.Client)
	builds := new(atomic.Int32)
	var (
		mu   sync.Mutex
		seen []storage.Credentials
	)
	factory := func(creds storage.Credentials) (storage.Client, error) {
		builds.Add(1)
		mu.Lock()
		seen = append(seen, creds)
		mu.Unlock()
		return client, nil
	}

	svc := NewService(store, factory, cacheClients, zap.NewNop())
	require.NoError(t, svc.SaveAccount(context.Background(), "main", "Main", "acct", "key", "secret"))
	return testEnv{svc: svc, client: client, builds: builds, seen: &seen}
}

func TestService_Accounts(t *testing.T) {
	env := setupService(t, false)
	ctx := context.Background()

	require.NoError(t, env.svc.SaveAccount(ctx, "backup", "Backup", "acct2", "key2", "secret2"))

	accounts, err := env.svc.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []credentials.AccountInfo{
		{ID: "main", Name: "Main", AccountID: "acct"},
		{ID: "backup", Name: "Backup", AccountID: "acct2"},
	}, accounts)

	require.NoError(t, env.svc.DeleteAccount(ctx, "main"))
	accounts, err = env.svc.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "backup", accounts[0].ID)
}

func TestService_UnknownAccount(t *testing.T) {
	env := setupService(t, false)

	_, err := env.svc.ListBuckets(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, int32(0), env.builds.Load())
}

func TestService_ResolvesCredentials(t *testing.T) {
	env := setupService(t, false)

	env.client.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{{Name: "photos"}}, nil)

	buckets, err := env.svc.ListBuckets(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "photos", buckets[0].Name)
	assert.Equal(t, []storage.Credentials{{AccountID: "acct", AccessKeyID: "key", SecretAccessKey: "secret"}}, *env.seen)
}

func TestService_ValidateCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		env := setupService(t, false)
		env.client.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

		ok, err := env.svc.ValidateCredentials(ctx, "acct", "key", "secret")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Rejected", func(t *testing.T) {
		env := setupService(t, false)
		env.client.On("ListBuckets", mock.Anything).Return(nil, minio.ErrorResponse{Code: "InvalidAccessKeyId", StatusCode: 403})

		ok, err := env.svc.ValidateCredentials(ctx, "acct", "bad", "bad")
		assert.False(t, ok)
		assert.ErrorContains(t, err, "credential validation failed")
		assert.True(t, storage.IsCredentials(err))
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc := NewService(nil, NewClientFactory(storage.DefaultConfig()), false, zap.NewNop())

		ok, err := svc.ValidateCredentials(ctx, "", "key", "secret")
		assert.False(t, ok)
		assert.True(t, storage.IsCredentials(err))
	})
}

func TestService_BucketOperations(t *testing.T) {
	env := setupService(t, false)
	ctx := context.Background()

	env.client.On("MakeBucket", mock.Anything, "new", minio.MakeBucketOptions{}).Return(nil)
	env.client.On("RemoveBucket", mock.Anything, "old").Return(nil)
	env.client.On("BucketExists", mock.Anything, "new").Return(true, nil)

	require.NoError(t, env.svc.CreateBucket(ctx, "main", "new"))
	require.NoError(t, env.svc.DeleteBucket(ctx, "main", "old"))

	info, err := env.svc.GetBucketInfo(ctx, "main", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", info.Name)
	env.client.AssertExpectations(t)
}

func TestService_ObjectOperations(t *testing.T) {
	env := setupService(t, false)
	ctx := context.Background()

	env.client.On("ListObjectsPage", mock.Anything, "bucket", "docs/", "", "/", storage.PageSize).Return(minio.ListBucketV2Result{
		Contents: []minio.ObjectInfo{{Key: "docs/"}, {Key: "docs/a.md", Size: 4}},
	}, nil)
	env.client.On("RemoveObject", mock.Anything, "bucket", "docs/a.md", minio.RemoveObjectOptions{}).Return(nil)
	env.client.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, minio.RemoveObjectsOptions{}).Return(nil)
	env.client.On("PutObject", mock.Anything, "bucket", "new/", mock.Anything, int64(0), minio.PutObjectOptions{}).Return(minio.UploadInfo{}, nil)

	objects, err := env.svc.ListObjects(ctx, "main", "bucket", "docs")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.md", objects[0].Name)

	require.NoError(t, env.svc.DeleteObject(ctx, "main", "bucket", "docs/a.md"))
	require.NoError(t, env.svc.DeleteObjects(ctx, "main", "bucket", []string{"x", "y"}))
	require.NoError(t, env.svc.CreateFolder(ctx, "main", "bucket", "new"))
	env.client.AssertExpectations(t)
}

func TestService_UploadFile(t *testing.T) {
	env := setupService(t, false)
	ctx := context.Background()

	local := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(local, []byte(`{"ok":true}`), 0o600))

	var body []byte
	env.client.On("PutObject", mock.Anything, "bucket", "reports/report.json", mock.Anything, int64(11),
		minio.PutObjectOptions{ContentType: "application/json"}).
		Run(func(args mock.Arguments) {
			body, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	require.NoError(t, env.svc.UploadFile(ctx, "main", "bucket", "reports/report.json", local))
	assert.Equal(t, `{"ok":true}`, string(body))

	t.Run("MissingLocalFile", func(t *testing.T) {
		err := env.svc.UploadFile(ctx, "main", "bucket", "x", filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestService_DownloadFile(t *testing.T) {
	env := setupService(t, false)
	ctx := context.Background()

	env.client.On("GetObject", mock.Anything, "bucket", "a.txt", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("hello")), nil)

	target := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, env.svc.DownloadFile(ctx, "main", "bucket", "a.txt", target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	t.Run("RemoteFailureWritesNothing", func(t *testing.T) {
		env.client.On("GetObject", mock.Anything, "bucket", "gone.txt", minio.GetObjectOptions{}).
			Return(nil, minio.ErrorResponse{Code: minio.NoSuchKey, StatusCode: 404})

		missing := filepath.Join(t.TempDir(), "gone.txt")
		err := env.svc.DownloadFile(ctx, "main", "bucket", "gone.txt", missing)
		assert.True(t, storage.IsObjectNotFound(err))

		_, statErr := os.Stat(missing)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})
}

func TestService_GetPresignedURL(t *testing.T) {
	env := setupService(t, false)
	env.client.On("PresignedGetObject", mock.Anything, "bucket", "a.txt", mock.Anything, mock.Anything).
		Return(mustParseURL(t, "https://acct.example/bucket/a.txt?X-Amz-Expires=60"), nil)

	u, err := env.svc.GetPresignedURL(context.Background(), "main", "bucket", "a.txt", 60)
	require.NoError(t, err)
	assert.Equal(t, "https://acct.example/bucket/a.txt?X-Amz-Expires=60", u)
}

func TestService_ClientCache(t *testing.T) {
	ctx := context.Background()

	t.Run("DisabledBuildsPerCall", func(t *testing.T) {
		env := setupService(t, false)
		env.client.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

		for range 3 {
			_, err := env.svc.ListBuckets(ctx, "main")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(3), env.builds.Load())
	})

	t.Run("EnabledReusesUntilSaved", func(t *testing.T) {
		env := setupService(t, true)
		env.client.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

		for range 3 {
			_, err := env.svc.ListBuckets(ctx, "main")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(1), env.builds.Load())

		require.NoError(t, env.svc.SaveAccount(ctx, "main", "Main", "acct", "key", "rotated"))
		_, err := env.svc.ListBuckets(ctx, "main")
		require.NoError(t, err)
		assert.Equal(t, int32(2), env.builds.Load())
		assert.Equal(t, "rotated", (*env.seen)[1].SecretAccessKey)
	})

	t.Run("ConcurrentMissesBuildOnce", func(t *testing.T) {
		env := setupService(t, true)
		env.client.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.svc.ListBuckets(ctx, "main")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), env.builds.Load())
	})
}
