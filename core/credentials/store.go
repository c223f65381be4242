package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// Store persists account metadata in a JSON file and secrets in a SecretStore.
// Every read-modify-write cycle holds an in-process mutex and an advisory
// lock on "<file>.lock", so concurrent writers in other processes cannot
// drop each other's updates.
type Store struct {
	mu      sync.Mutex
	path    string
	lock    *flock.Flock
	secrets SecretStore
	logger  *zap.Logger
}

// New opens the store described by cfg with secrets in the OS keyring.
// Nothing is read or created until the first operation.
func New(cfg Config, logger *zap.Logger) (*Store, error) {
	path, err := cfg.Path()
	if err != nil {
		return nil, err
	}
	return NewWithSecrets(path, NewKeyringStore(cfg.KeyringService), logger), nil
}

// NewWithSecrets opens the store at path with a custom secret facility.
func NewWithSecrets(path string, secrets SecretStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:    path,
		lock:    flock.New(path + ".lock"),
		secrets: secrets,
		logger:  logger,
	}
}

// Path returns the accounts file location.
func (s *Store) Path() string {
	return s.path
}

// SaveAccount inserts account or replaces the entry with the same ID,
// keeping its position.
func (s *Store) SaveAccount(account Account) error {
	return s.withLock(true, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		previous, prevErr := s.secrets.Get(account.ID)
		if err := s.secrets.Set(account.ID, account.SecretAccessKey); err != nil {
			return wrapError(ErrKindKeyring, "failed to store secret for account "+account.ID, err)
		}

		replaced := false
		for i := range file.Accounts {
			if file.Accounts[i].ID == account.ID {
				file.Accounts[i] = account
				replaced = true
				break
			}
		}
		if !replaced {
			file.Accounts = append(file.Accounts, account)
		}

		if err := s.save(file); err != nil {
			s.restoreSecret(account.ID, previous, prevErr)
			return err
		}
		s.logger.Debug("Saved account", zap.String("id", account.ID), zap.Bool("replaced", replaced))
		return nil
	})
}

// GetAccounts returns every stored account in file order. A secret that
// cannot be read is returned as "".
func (s *Store) GetAccounts() ([]Account, error) {
	var accounts []Account
	err := s.withLock(false, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		accounts = make([]Account, 0, len(file.Accounts))
		for _, a := range file.Accounts {
			a.SecretAccessKey = s.secret(a.ID)
			accounts = append(accounts, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccount looks up one account. A missing id reports false, not an error.
func (s *Store) GetAccount(id string) (Account, bool, error) {
	var (
		account Account
		found   bool
	)
	err := s.withLock(false, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		for _, a := range file.Accounts {
			if a.ID == id {
				a.SecretAccessKey = s.secret(a.ID)
				account, found = a, true
				return nil
			}
		}
		return nil
	})
	return account, found, err
}

// DeleteAccount removes the entry and its secret. Unknown ids succeed. A
// secret that cannot be removed is logged, not returned.
func (s *Store) DeleteAccount(id string) error {
	return s.withLock(true, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		kept := make([]Account, 0, len(file.Accounts))
		for _, a := range file.Accounts {
			if a.ID != id {
				kept = append(kept, a)
			}
		}

		if len(kept) != len(file.Accounts) {
			file.Accounts = kept
			if err := s.save(file); err != nil {
				return err
			}
		}

		if err := s.secrets.Delete(id); err != nil {
			s.logger.Warn("Failed to delete secret", zap.String("id", id), zap.Error(err))
		}
		s.logger.Debug("Deleted account", zap.String("id", id))
		return nil
	})
}

// restoreSecret puts back the secret held before a failed save. An id that
// had no secret has the new one removed.
func (s *Store) restoreSecret(id, previous string, prevErr error) {
	var err error
	switch {
	case prevErr == nil:
		err = s.secrets.Set(id, previous)
	case errors.Is(prevErr, ErrSecretNotFound):
		err = s.secrets.Delete(id)
	default:
		s.logger.Warn("Previous secret unknown, cannot restore", zap.String("id", id), zap.Error(prevErr))
		return
	}
	if err != nil {
		s.logger.Warn("Failed to restore secret", zap.String("id", id), zap.Error(err))
	}
}

func (s *Store) secret(id string) string {
	secret, err := s.secrets.Get(id)
	if err != nil {
		if !errors.Is(err, ErrSecretNotFound) {
			s.logger.Warn("Failed to read secret", zap.String("id", id), zap.Error(err))
		}
		return ""
	}
	return secret
}

// withLock runs fn under the mutex and the file lock. Readers of a store
// whose directory does not exist yet skip the file lock; there is nothing
// to read.
func (s *Store) withLock(exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if !exclusive {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return fn()
		}
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return wrapError(ErrKindIo, "failed to create config directory "+dir, err)
	}

	var err error
	if exclusive {
		err = s.lock.Lock()
	} else {
		err = s.lock.RLock()
	}
	if err != nil {
		return wrapError(ErrKindIo, "failed to lock "+s.lock.Path(), err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("Failed to release lock", zap.String("path", s.lock.Path()), zap.Error(err))
		}
	}()

	return fn()
}

// load reads the accounts file. A missing or empty file is an empty store.
func (s *Store) load() (*accountsFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &accountsFile{Accounts: []Account{}}, nil
	}
	if err != nil {
		return nil, wrapError(ErrKindIo, "failed to read "+s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &accountsFile{Accounts: []Account{}}, nil
	}

	var file accountsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, wrapError(ErrKindSerialization, "failed to parse "+s.path, err)
	}
	if file.Accounts == nil {
		file.Accounts = []Account{}
	}
	return &file, nil
}

// save replaces the accounts file atomically through a temp file and rename.
func (s *Store) save(file *accountsFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return wrapError(ErrKindSerialization, "failed to encode accounts", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return wrapError(ErrKindIo, "failed to create temp file in "+dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return wrapError(ErrKindIo, "failed to write "+tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return wrapError(ErrKindIo, "failed to sync "+tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return wrapError(ErrKindIo, "failed to close "+tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return wrapError(ErrKindIo, "failed to chmod "+tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return wrapError(ErrKindIo, "failed to replace "+s.path, err)
	}
	return nil
}
