package explorer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"r2-explorer/core/credentials"
	"r2-explorer/core/storage"

	"go.uber.org/zap"
)

// ErrAccountNotFound is returned when a local account id is not in the store.
var ErrAccountNotFound = errors.New("account not found")

// AccountStore persists accounts. *credentials.Store implements it.
type AccountStore interface {
	SaveAccount(account credentials.Account) error
	GetAccounts() ([]credentials.Account, error)
	GetAccount(id string) (credentials.Account, bool, error)
	DeleteAccount(id string) error
}

// Service resolves local account ids to storage clients and runs bucket
// and object operations against them. Every call reads the store fresh.
type Service struct {
	store   AccountStore
	clients *clientCache
	logger  *zap.Logger
}

// NewService creates a new explorer service. With cacheClients set, one
// client per account is reused until the account is saved or deleted.
func NewService(store AccountStore, factory ClientFactory, cacheClients bool, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		clients: newClientCache(factory, cacheClients),
		logger:  logger,
	}
}

// SaveAccount inserts or replaces the account with the given id.
func (s *Service) SaveAccount(ctx context.Context, id, name, accountID, accessKeyID, secret string) error {
	err := s.store.SaveAccount(credentials.Account{
		ID:              id,
		Name:            name,
		AccountID:       accountID,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secret,
	})
	if err != nil {
		return err
	}
	s.clients.invalidate(id)
	s.logger.Info("Account saved", zap.String("id", id), zap.String("account_id", accountID))
	return nil
}

// GetAccounts lists every account without credential material.
func (s *Service) GetAccounts(ctx context.Context) ([]credentials.AccountInfo, error) {
	accounts, err := s.store.GetAccounts()
	if err != nil {
		return nil, err
	}
	infos := make([]credentials.AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		infos = append(infos, a.Info())
	}
	return infos, nil
}

// DeleteAccount removes the account and its secret.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := s.store.DeleteAccount(id); err != nil {
		return err
	}
	s.clients.invalidate(id)
	s.logger.Info("Account deleted", zap.String("id", id))
	return nil
}

// ValidateCredentials builds a throwaway client and probes it with a bucket
// listing. It reports true or an error, never false without one.
func (s *Service) ValidateCredentials(ctx context.Context, accountID, accessKeyID, secret string) (bool, error) {
	client, err := s.clients.build(storage.Credentials{
		AccountID:       accountID,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secret,
	})
	if err != nil {
		return false, err
	}
	if err := client.ValidateCredentials(ctx); err != nil {
		return false, fmt.Errorf("credential validation failed: %w", err)
	}
	return true, nil
}

// ListBuckets lists the buckets of account id.
func (s *Service) ListBuckets(ctx context.Context, id string) ([]storage.BucketInfo, error) {
	client, err := s.client(id)
	if err != nil {
		return nil, err
	}
	return client.ListBuckets(ctx)
}

// CreateBucket creates bucket in account id.
func (s *Service) CreateBucket(ctx context.Context, id, bucket string) error {
	client, err := s.client(id)
	if err != nil {
		return err
	}
	if err := client.CreateBucket(ctx, bucket); err != nil {
		return err
	}
	s.logger.Info("Bucket created", zap.String("id", id), zap.String("bucket", bucket))
	return nil
}

// DeleteBucket deletes an empty bucket.
func (s *Service) DeleteBucket(ctx context.Context, id, bucket string) error {
	client, err := s.client(id)
	if err != nil {
		return err
	}
	if err := client.DeleteBucket(ctx, bucket); err != nil {
		return err
	}
	s.logger.Info("Bucket deleted", zap.String("id", id), zap.String("bucket", bucket))
	return nil
}

// GetBucketInfo checks that bucket exists.
func (s *Service) GetBucketInfo(ctx context.Context, id, bucket string) (storage.BucketInfo, error) {
	client, err := s.client(id)
	if err != nil {
		return storage.BucketInfo{}, err
	}
	return client.GetBucketInfo(ctx, bucket)
}

// ListObjects returns the folder view of bucket at prefix.
func (s *Service) ListObjects(ctx context.Context, id, bucket, prefix string) ([]storage.ObjectInfo, error) {
	client, err := s.client(id)
	if err != nil {
		return nil, err
	}
	return client.ListObjects(ctx, bucket, prefix)
}

// DeleteObject deletes one key.
func (s *Service) DeleteObject(ctx context.Context, id, bucket, key string) error {
	client, err := s.client(id)
	if err != nil {
		return err
	}
	return client.DeleteObject(ctx, bucket, key)
}

// DeleteObjects deletes keys in batches. Any failure fails the call.
func (s *Service) DeleteObjects(ctx context.Context, id, bucket string, keys []string) error {
	client, err := s.client(id)
	if err != nil {
		return err
	}
	if err := client.DeleteObjects(ctx, bucket, keys); err != nil {
		return err
	}
	s.logger.Info("Objects deleted", zap.String("bucket", bucket), zap.Int("count", len(keys)))
	return nil
}

// CreateFolder writes a folder marker for path.
func (s *Service) CreateFolder(ctx context.Context, id, bucket, path string) error {
	client, err := s.client(id)
	if err != nil {
		return err
	}
	return client.CreateFolder(ctx, bucket, path)
}

// GetPresignedURL returns a download URL valid for expiresIn seconds.
func (s *Service) GetPresignedURL(ctx context.Context, id, bucket, key string, expiresIn uint64) (string, error) {
	client, err := s.client(id)
	if err != nil {
		return "", err
	}
	return client.PresignedURL(ctx, bucket, key, expiresIn)
}

// PutObject uploads data under key. An empty contentType is derived from
// the key's extension.
func (s *Service) PutObject(ctx context.Context, id, bucket, key string, data []byte, contentType string) error {
	client, err := s.client(id)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
	}
	if err := client.PutObject(ctx, bucket, key, data, contentType); err != nil {
		return err
	}
	s.logger.Debug("Object uploaded", zap.String("bucket", bucket), zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

// GetObject downloads key into memory.
func (s *Service) GetObject(ctx context.Context, id, bucket, key string) ([]byte, error) {
	client, err := s.client(id)
	if err != nil {
		return nil, err
	}
	return client.GetObject(ctx, bucket, key)
}

// UploadFile reads localPath fully and uploads it as key.
func (s *Service) UploadFile(ctx context.Context, id, bucket, key, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	return s.PutObject(ctx, id, bucket, key, data, "")
}

// DownloadFile downloads key fully and writes it to savePath.
func (s *Service) DownloadFile(ctx context.Context, id, bucket, key, savePath string) error {
	data, err := s.GetObject(ctx, id, bucket, key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", savePath, err)
	}
	s.logger.Debug("Object downloaded", zap.String("key", key), zap.String("path", savePath))
	return nil
}

// client resolves id to a storage client.
func (s *Service) client(id string) (*storage.ObjectClient, error) {
	account, found, err := s.store.GetAccount(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return s.clients.get(id, storage.Credentials{
		AccountID:       account.AccountID,
		AccessKeyID:     account.AccessKeyID,
		SecretAccessKey: account.SecretAccessKey,
	})
}
