package storefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore keeps the credential record in process memory.
type FakeStore struct {
	values map[credentials.Key]string
	reads  map[credentials.Key]int
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[credentials.Key]string),
		reads:  make(map[credentials.Key]int),
	}
}

// NewFakeStoreWith returns a store seeded with the given values.
func NewFakeStoreWith(values map[credentials.Key]string) *FakeStore {
	fs := NewFakeStore()
	for k, v := range values {
		fs.values[k] = v
	}
	return fs
}

func (fs *FakeStore) Get(_ context.Context, key credentials.Key) (string, bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.reads[key]++
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FakeStore) Set(_ context.Context, key credentials.Key, value string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
}

func (fs *FakeStore) Update(_ context.Context, set map[credentials.Key]string, remove ...credentials.Key) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	for _, k := range remove {
		delete(fs.values, k)
	}
	for k, v := range set {
		fs.values[k] = v
	}
}

// Snapshot returns a copy of every stored value.
func (fs *FakeStore) Snapshot() map[credentials.Key]string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	out := make(map[credentials.Key]string, len(fs.values))
	for k, v := range fs.values {
		out[k] = v
	}
	return out
}

// Reads returns how many times key has been read.
func (fs *FakeStore) Reads(key credentials.Key) int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.reads[key]
}
