package cache

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Documents caches parsed documents by a deterministic key derived from the
// source text and parse options. Cached values must not be mutated.
type Documents[V any] struct {
	lru *lru.Cache[uuid.UUID, V]
}

// NewDocuments returns a document cache holding up to size entries.
func NewDocuments[V any](size int) (*Documents[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	c, err := lru.New[uuid.UUID, V](size)
	if err != nil {
		return nil, err
	}
	return &Documents[V]{lru: c}, nil
}

// Get returns the cached value for key.
func (d *Documents[V]) Get(key uuid.UUID) (V, bool) {
	if d == nil || key == uuid.Nil {
		var zero V
		return zero, false
	}
	return d.lru.Get(key)
}

// Add stores value under key. Nil keys are ignored.
func (d *Documents[V]) Add(key uuid.UUID, value V) {
	if d == nil || key == uuid.Nil {
		return
	}
	d.lru.Add(key, value)
}

// Remove evicts key.
func (d *Documents[V]) Remove(key uuid.UUID) {
	if d == nil {
		return
	}
	d.lru.Remove(key)
}

// Purge empties the cache.
func (d *Documents[V]) Purge() {
	if d == nil {
		return
	}
	d.lru.Purge()
}

// Len returns the number of cached documents.
func (d *Documents[V]) Len() int {
	if d == nil {
		return 0
	}
	return d.lru.Len()
}
