// Package testing provides utilities for testing applications that use
// themekit. It offers scripted key-value adapters for exercising the
// store's storage-failure discipline, plus a ready-made fixture catalog.
//
// Example usage:
//
//	kv := themetesting.NewRecorderKV(memorystore.NewKV())
//	store, _ := entitlements.Open(ctx, themetesting.DefaultCatalog(), kv, seed)
//
//	// ... mutate, then inspect kv.Writes() for ordering
package testing

import (
	"context"
	"sync"

	"github.com/open-rails/themekit/catalog"
	"github.com/open-rails/themekit/entitlements"
)

// Write is one recorded Set call.
type Write struct {
	Key   string
	Value string
}

// RecorderKV wraps another adapter and records every Set in call order.
// Use it to assert that multi-key flushes land in the required order
// (balance debit before ownership grant).
type RecorderKV struct {
	inner  entitlements.KV
	mu     sync.Mutex
	writes []Write
}

// NewRecorderKV wraps inner; a nil inner records writes without storing.
func NewRecorderKV(inner entitlements.KV) *RecorderKV {
	return &RecorderKV{inner: inner}
}

func (r *RecorderKV) Get(ctx context.Context, key string) (string, bool, error) {
	if r.inner == nil {
		return "", false, nil
	}
	return r.inner.Get(ctx, key)
}

func (r *RecorderKV) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.writes = append(r.writes, Write{Key: key, Value: value})
	r.mu.Unlock()
	if r.inner == nil {
		return nil
	}
	return r.inner.Set(ctx, key, value)
}

// Writes returns a copy of the recorded Set calls in order.
func (r *RecorderKV) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// FlakyKV wraps another adapter and injects per-key failures, simulating
// unavailable or corrupt device storage.
type FlakyKV struct {
	inner entitlements.KV

	mu       sync.Mutex
	getErrs  map[string]error
	setErrs  map[string]error
	setFails int
}

// NewFlakyKV wraps inner (usually a memorystore.KV).
func NewFlakyKV(inner entitlements.KV) *FlakyKV {
	return &FlakyKV{
		inner:   inner,
		getErrs: make(map[string]error),
		setErrs: make(map[string]error),
	}
}

// FailGet makes Get on key return err. A nil err clears the failure.
func (f *FlakyKV) FailGet(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.getErrs, key)
		return
	}
	f.getErrs[key] = err
}

// FailSet makes Set on key return err. A nil err clears the failure.
func (f *FlakyKV) FailSet(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.setErrs, key)
		return
	}
	f.setErrs[key] = err
}

// SetFailures reports how many Set calls were rejected.
func (f *FlakyKV) SetFailures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setFails
}

func (f *FlakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	err := f.getErrs[key]
	f.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return f.inner.Get(ctx, key)
}

func (f *FlakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	err := f.setErrs[key]
	if err != nil {
		f.setFails++
	}
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

// DefaultCatalog returns the standard four-theme fixture: Light and Dark
// free, Ocean (99) and Midnight (199) premium. Panics on a definition
// error since that can only be a bug in this package.
func DefaultCatalog() *catalog.Catalog {
	c, err := catalog.New(
		catalog.Item{ID: "light", DisplayName: "Light", Tier: catalog.TierFree, DefaultOwned: true},
		catalog.Item{ID: "dark", DisplayName: "Dark", Tier: catalog.TierFree, DefaultOwned: true},
		catalog.Item{ID: "ocean", DisplayName: "Ocean", Tier: catalog.TierPremium, Price: 99},
		catalog.Item{ID: "midnight", DisplayName: "Midnight", Tier: catalog.TierPremium, Price: 199},
	)
	if err != nil {
		panic("themekit/testing: fixture catalog invalid: " + err.Error())
	}
	return c
}
