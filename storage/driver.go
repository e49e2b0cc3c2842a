package storage

import (
	"context"
	"errors"
	log "log/slog"
	"slices"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/document"
	"github.com/sharedcode/ocaf/encoding"
)

// ErrNotFound is wrapped by drivers when a document does not exist.
var ErrNotFound = errors.New("document not found")

// NotFound returns the error drivers report for a missing document.
func NotFound(name string) error {
	return ocaf.Error{Code: ocaf.StorageNotFound, Err: ErrNotFound, UserData: name}
}

// Driver persists encoded documents by name.
type Driver interface {
	// Put stores data under name, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the content stored under name, or an error wrapping ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// Remove deletes name. Removing a missing document is not an error.
	Remove(ctx context.Context, name string) error
	// List returns the stored document names.
	List(ctx context.Context) ([]string, error)
}

// Save encodes doc and stores it under its name, then marks it saved.
func Save(ctx context.Context, d Driver, m encoding.Marshaler, doc *document.Document) error {
	ba, err := Encode(doc, m)
	if err != nil {
		return err
	}
	if err := d.Put(ctx, doc.Name(), ba); err != nil {
		return err
	}
	doc.SetSaved()
	log.Debug("document saved", "document", doc.Name(), "bytes", len(ba))
	return nil
}

// Load reads and decodes the document stored under name.
func Load(ctx context.Context, d Driver, m encoding.Marshaler, name string, opts ocaf.DocumentOptions) (*document.Document, error) {
	ba, err := d.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(ba, m, opts)
}

type memoryDriver struct {
	lock sync.RWMutex
	docs map[string][]byte
}

// NewMemoryDriver returns a Driver keeping documents in process memory.
func NewMemoryDriver() Driver {
	return &memoryDriver{docs: make(map[string][]byte)}
}

func (m *memoryDriver) Put(ctx context.Context, name string, data []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.docs[name] = slices.Clone(data)
	return nil
}

func (m *memoryDriver) Get(ctx context.Context, name string) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	ba, ok := m.docs[name]
	if !ok {
		return nil, NotFound(name)
	}
	return slices.Clone(ba), nil
}

func (m *memoryDriver) Remove(ctx context.Context, name string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.docs, name)
	return nil
}

func (m *memoryDriver) List(ctx context.Context) ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	r := make([]string, 0, len(m.docs))
	for n := range m.docs {
		r = append(r, n)
	}
	slices.Sort(r)
	return r, nil
}

// CachedDriver is a Driver with a read-through cache of encoded documents.
type CachedDriver struct {
	Driver
	cache *ristretto.Cache[string, []byte]
}

// NewCachedDriver wraps d with a cache holding up to maxCost bytes.
func NewCachedDriver(d Driver, maxCost int64) (*CachedDriver, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10 * max(maxCost/1024, 100),
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedDriver{Driver: d, cache: c}, nil
}

func (c *CachedDriver) Put(ctx context.Context, name string, data []byte) error {
	if err := c.Driver.Put(ctx, name, data); err != nil {
		c.cache.Del(name)
		return err
	}
	c.cache.Set(name, slices.Clone(data), int64(len(data)))
	c.cache.Wait()
	return nil
}

func (c *CachedDriver) Get(ctx context.Context, name string) ([]byte, error) {
	if ba, ok := c.cache.Get(name); ok {
		return slices.Clone(ba), nil
	}
	ba, err := c.Driver.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Set(name, slices.Clone(ba), int64(len(ba)))
	return ba, nil
}

func (c *CachedDriver) Remove(ctx context.Context, name string) error {
	c.cache.Del(name)
	return c.Driver.Remove(ctx, name)
}

// Close releases the cache.
func (c *CachedDriver) Close() {
	c.cache.Close()
}
