// Package roomkey caches the symmetric key of each room for the lifetime of
// a session.
//
// Resolving a room key is expensive: it costs a round trip to the key
// distribution service plus an ML-KEM decapsulation. The cache guarantees
// that no matter how many callers ask for the same room concurrently, the
// resolution runs at most once, and every caller observes the same key or
// the same failure. Failures are never cached; the next call retries.
package roomkey

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fetcher resolves the symmetric key for a room. Implementations fetch the
// caller's distribution entry and open it with the session's secret key.
type Fetcher interface {
	FetchRoomKey(ctx context.Context, roomID int64) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, roomID int64) ([]byte, error)

// FetchRoomKey calls f.
func (f FetcherFunc) FetchRoomKey(ctx context.Context, roomID int64) ([]byte, error) {
	return f(ctx, roomID)
}

// Cache is a per-session room key store with single-flight resolution.
// It is safe for concurrent use. It is the only shared mutable structure in
// the crypto core; all map access is guarded by mu, and the check-and-fetch
// step is serialized per room by the singleflight group.
type Cache struct {
	fetcher Fetcher

	mu   sync.RWMutex
	keys map[int64][]byte

	group singleflight.Group
}

// NewCache creates a cache that resolves missing keys through fetcher.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		keys:    make(map[int64][]byte),
	}
}

// Get returns the room's key, resolving it through the fetcher on first use.
//
// Concurrent calls for the same room share a single in-flight fetch. The
// fetch runs under the context of the caller that initiated it; a waiter
// whose own context is cancelled stops waiting with ctx.Err() without
// affecting the others.
func (c *Cache) Get(ctx context.Context, roomID int64) ([]byte, error) {
	c.mu.RLock()
	key, ok := c.keys[roomID]
	c.mu.RUnlock()
	if ok {
		return key, nil
	}

	ch := c.group.DoChan(strconv.FormatInt(roomID, 10), func() (interface{}, error) {
		// Re-check: another flight may have populated the entry between the
		// miss above and this call.
		c.mu.RLock()
		key, ok := c.keys[roomID]
		c.mu.RUnlock()
		if ok {
			return key, nil
		}

		key, err := c.fetcher.FetchRoomKey(ctx, roomID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.keys[roomID] = key
		c.mu.Unlock()
		return key, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Put stores a key directly, bypassing the fetcher. Used when the session
// itself minted the key (room creation, rotation).
func (c *Cache) Put(roomID int64, key []byte) {
	c.mu.Lock()
	c.keys[roomID] = key
	c.mu.Unlock()
}

// Invalidate drops a single room's key so the next Get resolves it afresh.
// Used after key rotation.
func (c *Cache) Invalidate(roomID int64) {
	c.mu.Lock()
	delete(c.keys, roomID)
	c.mu.Unlock()
	c.group.Forget(strconv.FormatInt(roomID, 10))
}

// Clear removes every cached key. Called on session lock/logout. Key slices
// are zeroed before release; callers holding a previously returned slice must
// not use it past Clear.
func (c *Cache) Clear() {
	c.mu.Lock()
	for id, key := range c.keys {
		for i := range key {
			key[i] = 0
		}
		delete(c.keys, id)
	}
	c.mu.Unlock()
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}
