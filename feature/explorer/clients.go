package explorer

import (
	"sync"

	"r2-explorer/core/storage"

	"golang.org/x/sync/singleflight"
)

// ClientFactory builds a low-level storage client for one set of credentials.
type ClientFactory func(creds storage.Credentials) (storage.Client, error)

// NewClientFactory returns a ClientFactory backed by minio with cfg.
func NewClientFactory(cfg storage.Config) ClientFactory {
	return func(creds storage.Credentials) (storage.Client, error) {
		return storage.NewClient(cfg, creds)
	}
}

type cachedClient struct {
	creds  storage.Credentials
	client *storage.ObjectClient
}

// clientCache hands out one ObjectClient per local account id. When
// disabled every call builds a fresh client.
type clientCache struct {
	factory ClientFactory
	enabled bool

	mu      sync.RWMutex
	clients map[string]cachedClient
	sf      singleflight.Group
}

func newClientCache(factory ClientFactory, enabled bool) *clientCache {
	return &clientCache{
		factory: factory,
		enabled: enabled,
		clients: make(map[string]cachedClient),
	}
}

// build always constructs a new client.
func (c *clientCache) build(creds storage.Credentials) (*storage.ObjectClient, error) {
	client, err := c.factory(creds)
	if err != nil {
		return nil, err
	}
	return storage.NewObjectClient(client, creds.AccountID), nil
}

// get returns the cached client for id if it was built from the same
// credentials, otherwise builds and stores a new one. Concurrent misses
// for one id share a single construction.
func (c *clientCache) get(id string, creds storage.Credentials) (*storage.ObjectClient, error) {
	if !c.enabled {
		return c.build(creds)
	}

	c.mu.RLock()
	entry, ok := c.clients[id]
	c.mu.RUnlock()
	if ok && entry.creds == creds {
		return entry.client, nil
	}

	result, err, _ := c.sf.Do(flightKey(id, creds), func() (any, error) {
		c.mu.RLock()
		entry, ok := c.clients[id]
		c.mu.RUnlock()
		if ok && entry.creds == creds {
			return entry.client, nil
		}

		client, err := c.build(creds)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.clients[id] = cachedClient{creds: creds, client: client}
		c.mu.Unlock()
		return client, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*storage.ObjectClient), nil
}

// flightKey groups concurrent misses by id and credentials, so a caller
// never receives a client built from another caller's credentials.
func flightKey(id string, creds storage.Credentials) string {
	return id + "\x00" + creds.AccountID + "\x00" + creds.AccessKeyID + "\x00" + creds.SecretAccessKey
}

// invalidate drops the cached client for id.
func (c *clientCache) invalidate(id string) {
	c.mu.Lock()
	delete(c.clients, id)
	c.mu.Unlock()
}
