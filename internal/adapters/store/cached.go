package store

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cached wraps an ObjectStore with an LRU read cache.
// Objects are immutable per ref, so cached bytes stay valid until Put or Delete replaces them.
type Cached struct {
	next  ports.ObjectStore
	cache *lru.Cache[domain.Ref, []byte]
}

// NewCached wraps next with a cache of size entries.
func NewCached(next ports.ObjectStore, size int) (*Cached, error) {
	cache, err := lru.New[domain.Ref, []byte](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create object cache"), "size", size)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Put writes through and refreshes the cache.
func (c *Cached) Put(ctx context.Context, ref domain.Ref, data []byte) error {
	if err := c.next.Put(ctx, ref, data); err != nil {
		c.cache.Remove(ref)
		return err
	}
	c.cache.Add(ref, slices.Clone(data))
	return nil
}

// Get serves from the cache, falling back to the wrapped store.
func (c *Cached) Get(ctx context.Context, ref domain.Ref) ([]byte, error) {
	if data, ok := c.cache.Get(ref); ok {
		return slices.Clone(data), nil
	}
	data, err := c.next.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.cache.Add(ref, slices.Clone(data))
	return data, nil
}

// Has answers from the cache when possible.
func (c *Cached) Has(ctx context.Context, ref domain.Ref) (bool, error) {
	if c.cache.Contains(ref) {
		return true, nil
	}
	return c.next.Has(ctx, ref)
}

// Delete evicts ref and removes it from the wrapped store.
func (c *Cached) Delete(ctx context.Context, ref domain.Ref) error {
	c.cache.Remove(ref)
	return c.next.Delete(ctx, ref)
}

// List delegates to the wrapped store.
func (c *Cached) List(ctx context.Context) ([]domain.Ref, error) {
	return c.next.List(ctx)
}

// Close purges the cache and closes the wrapped store when it holds resources.
func (c *Cached) Close() error {
	c.cache.Purge()
	return Close(c.next)
}
