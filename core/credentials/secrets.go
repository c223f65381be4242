package credentials

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// ErrSecretNotFound is returned by SecretStore.Get when nothing is stored.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore abstracts a secure secret facility such as the OS keyring.
// Implementations must be safe to call from multiple goroutines.
type SecretStore interface {
	Get(id string) (string, error)
	Set(id, secret string) error
	Delete(id string) error
}

// KeyringStore keeps secrets in the OS keyring under one service name.
type KeyringStore struct {
	Service string
}

// NewKeyringStore returns a keyring-backed SecretStore.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = AppDirName
	}
	return &KeyringStore{Service: service}
}

func (k *KeyringStore) Get(id string) (string, error) {
	secret, err := keyring.Get(k.Service, id)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrSecretNotFound
	}
	return secret, err
}

func (k *KeyringStore) Set(id, secret string) error {
	return keyring.Set(k.Service, id, secret)
}

// Delete removes the secret for id. A secret that was never stored is not an error.
func (k *KeyringStore) Delete(id string) error {
	err := keyring.Delete(k.Service, id)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
