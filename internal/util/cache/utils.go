package cache_utils

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"taskflow/internal/cache"

	"github.com/valkey-io/valkey-go"
)

const (
	DefaultCacheTimeout = 5 * time.Second
	DefaultCacheExpiry  = 10 * time.Minute
)

var isDisabled atomic.Bool

// DisableForTests turns every CacheUtil into a no-op for the rest of the
// process, so tests backed by an in-memory database never reach Valkey.
func DisableForTests() {
	isDisabled.Store(true)
}

// ClientProvider defers client creation until the first cache call, so
// package-level DI wiring never dials Valkey at import time.
type ClientProvider func() valkey.Client

// CacheUtil is a typed JSON cache over Valkey. A nil provider turns every
// call into a miss, which is what unit tests rely on.
type CacheUtil[T any] struct {
	provider ClientProvider
	prefix   string
	timeout  time.Duration
	expiry   time.Duration
}

func NewCacheUtil[T any](provider ClientProvider, prefix string) *CacheUtil[T] {
	return &CacheUtil[T]{
		provider: provider,
		prefix:   prefix,
		timeout:  DefaultCacheTimeout,
		expiry:   DefaultCacheExpiry,
	}
}

func TestCacheConnection() error {
	if cache.GetCache() == nil {
		return errors.New("valkey client is not connected")
	}

	cacheUtil := NewCacheUtil[string](cache.GetCache, "test:")

	testKey := "connection_test"
	testValue := "valkey_is_working"

	cacheUtil.Set(testKey, &testValue)

	retrievedValue := cacheUtil.Get(testKey)
	if retrievedValue == nil {
		return errors.New("could not retrieve cached value")
	}

	if *retrievedValue != testValue {
		return errors.New("retrieved value does not match expected")
	}

	cacheUtil.Invalidate(testKey)

	if cacheUtil.Get(testKey) != nil {
		return errors.New("test key was not properly invalidated")
	}

	return nil
}

func (c *CacheUtil[T]) Get(key string) *T {
	if !c.isActive() {
		return nil
	}

	client := c.provider()
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result := client.Do(ctx, client.B().Get().Key(c.prefix+key).Build())
	if result.Error() != nil {
		return nil
	}

	data, err := result.AsBytes()
	if err != nil {
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil
	}

	return &item
}

func (c *CacheUtil[T]) Set(key string, item *T) {
	if !c.isActive() {
		return
	}

	client := c.provider()
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := json.Marshal(item)
	if err != nil {
		return
	}

	client.Do(ctx, client.B().Set().Key(c.prefix+key).Value(string(data)).Ex(c.expiry).Build())
}

func (c *CacheUtil[T]) Invalidate(key string) {
	if !c.isActive() {
		return
	}

	client := c.provider()
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	client.Do(ctx, client.B().Del().Key(c.prefix+key).Build())
}

func (c *CacheUtil[T]) isActive() bool {
	return c.provider != nil && !isDisabled.Load()
}
