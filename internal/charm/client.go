// ABOUTME: Charm KV client implementing the fitcoach storage Backend.
// ABOUTME: Writes are pushed to Charm Cloud; reads come from the local replica.
package charm

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/fitcoach/internal/storage"
)

const (
	// DBName is the Charm KV database holding fitcoach records.
	DBName = "fitcoach"
	// DefaultHost is the Charm server used when CHARM_HOST is unset.
	DefaultHost = "charm.2389.dev"

	// RecordPrefix namespaces every record key inside the KV database.
	RecordPrefix = "record:"
)

// ErrReadOnly is returned by writes while another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// Client is a storage.Backend on top of Charm KV.
type Client struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

var _ storage.Backend = (*Client)(nil)

// Open connects to the fitcoach KV database. host overrides CHARM_HOST when
// non-empty, otherwise DefaultHost is used if CHARM_HOST is unset.
func Open(host string) (*Client, error) {
	if host == "" && os.Getenv("CHARM_HOST") == "" {
		host = DefaultHost
	}
	if host != "" {
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenWithDefaultsFallback(DBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Client{kv: db, autoSync: true}

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

// RecordKey returns the KV key for a store record key.
func RecordKey(key string) []byte {
	return []byte(RecordPrefix + key)
}

// StoreKey strips the record namespace from a KV key.
func StoreKey(raw []byte) (string, bool) {
	s := string(raw)
	if !strings.HasPrefix(s, RecordPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, RecordPrefix), true
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Keys lists the store keys present in the local replica, sorted.
func (c *Client) Keys() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keysLocked()
}

func (c *Client) keysLocked() ([]string, error) {
	raw, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, k := range raw {
		if key, ok := StoreKey(k); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns the value for key.
func (c *Client) Get(key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, err := c.kv.Get(RecordKey(key))
	if err == nil {
		return val, true, nil
	}
	if isNotFound(err) {
		return nil, false, nil
	}

	// Fall back to the key listing in case the error wraps a miss.
	keys, kerr := c.keysLocked()
	if kerr != nil {
		return nil, false, err
	}
	for _, k := range keys {
		if k == key {
			return nil, false, err
		}
	}
	return nil, false, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

// Set stores value under key and pushes it to the cloud.
func (c *Client) Set(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set(RecordKey(key), value); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// Delete removes key.
func (c *Client) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Delete(RecordKey(key)); err != nil && !isNotFound(err) {
		return err
	}
	c.syncIfEnabled()
	return nil
}
