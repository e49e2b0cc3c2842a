// Package application keeps the set of open documents of a process and persists them
// through a storage driver.
package application

import (
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/document"
	"github.com/sharedcode/ocaf/encoding"
	"github.com/sharedcode/ocaf/storage"
)

// ErrDocumentExists is returned when opening or creating a document whose name is taken.
var ErrDocumentExists = fmt.Errorf("document already open")

type entry struct {
	lock sync.Mutex
	doc  *document.Document
}

// Application owns open documents. Documents are not safe for concurrent use, so callers
// reach them through Do, which serializes access per document.
type Application struct {
	lock      sync.RWMutex
	docs      map[string]*entry
	driver    storage.Driver
	marshaler encoding.Marshaler
	opts      ocaf.Options
}

// New returns an Application persisting through driver.
func New(opts ocaf.Options, driver storage.Driver) (*Application, error) {
	m, err := encoding.ByFormat(opts.Storage.Format)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		driver = storage.NewMemoryDriver()
	}
	return &Application{
		docs:      make(map[string]*entry),
		driver:    driver,
		marshaler: m,
		opts:      opts,
	}, nil
}

// Open builds the configured driver and returns an Application over it.
func Open(ctx context.Context, opts ocaf.Options) (*Application, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	d, err := NewDriver(ctx, opts.Storage)
	if err != nil {
		return nil, err
	}
	return New(opts, d)
}

// Driver returns the storage driver.
func (a *Application) Driver() storage.Driver { return a.driver }

func (a *Application) add(doc *document.Document) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.docs[doc.Name()]; ok {
		return ocaf.Error{Code: ocaf.CommandState, Err: ErrDocumentExists, UserData: doc.Name()}
	}
	a.docs[doc.Name()] = &entry{doc: doc}
	return nil
}

func (a *Application) find(name string) (*entry, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	e, ok := a.docs[name]
	if !ok {
		return nil, storage.NotFound(name)
	}
	return e, nil
}

// NewDocument creates an empty document named name.
func (a *Application) NewDocument(name string) (*document.Document, error) {
	doc, err := document.New(name, a.opts.Document)
	if err != nil {
		return nil, err
	}
	if err := a.add(doc); err != nil {
		doc.Close()
		return nil, err
	}
	log.Debug("document created", "document", name, "id", doc.ID().String())
	return doc, nil
}

// OpenDocument loads a stored document, or returns it if it is already open.
func (a *Application) OpenDocument(ctx context.Context, name string) (*document.Document, error) {
	if e, err := a.find(name); err == nil {
		return e.doc, nil
	}
	doc, err := storage.Load(ctx, a.driver, a.marshaler, name, a.opts.Document)
	if err != nil {
		return nil, err
	}
	if err := a.add(doc); err != nil {
		// Lost a race with a concurrent open.
		doc.Close()
		e, ferr := a.find(name)
		if ferr != nil {
			return nil, err
		}
		return e.doc, nil
	}
	return doc, nil
}

// Do runs fn with exclusive access to the open document named name.
func (a *Application) Do(name string, fn func(*document.Document) error) error {
	e, err := a.find(name)
	if err != nil {
		return err
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	return fn(e.doc)
}

// Documents returns the names of the open documents, sorted.
func (a *Application) Documents() []string {
	a.lock.RLock()
	defer a.lock.RUnlock()
	r := make([]string, 0, len(a.docs))
	for n := range a.docs {
		r = append(r, n)
	}
	slices.Sort(r)
	return r
}

// Stored returns the names of the documents held by the driver.
func (a *Application) Stored(ctx context.Context) ([]string, error) {
	return a.driver.List(ctx)
}

// Save persists the open document named name.
func (a *Application) Save(ctx context.Context, name string) error {
	return a.Do(name, func(doc *document.Document) error {
		return storage.Save(ctx, a.driver, a.marshaler, doc)
	})
}

// SaveAll persists every modified open document, SaveConcurrency at a time.
func (a *Application) SaveAll(ctx context.Context) error {
	eg, ectx := errgroup.WithContext(ctx)
	if a.opts.SaveConcurrency > 0 {
		eg.SetLimit(a.opts.SaveConcurrency)
	}
	for _, name := range a.Documents() {
		name := name
		eg.Go(func() error {
			return a.Do(name, func(doc *document.Document) error {
				if !doc.IsModified() {
					return nil
				}
				return storage.Save(ectx, a.driver, a.marshaler, doc)
			})
		})
	}
	return eg.Wait()
}

// CloseDocument releases an open document without saving it.
func (a *Application) CloseDocument(name string) error {
	a.lock.Lock()
	e, ok := a.docs[name]
	delete(a.docs, name)
	a.lock.Unlock()
	if !ok {
		return storage.NotFound(name)
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.doc.Close()
	return nil
}

// Remove closes the document if open and deletes it from storage.
func (a *Application) Remove(ctx context.Context, name string) error {
	if err := a.CloseDocument(name); err != nil && !ocaf.IsCode(err, ocaf.StorageNotFound) {
		return err
	}
	return a.driver.Remove(ctx, name)
}

// Close releases every open document and the driver's cache, if any.
func (a *Application) Close() {
	for _, n := range a.Documents() {
		a.CloseDocument(n)
	}
	if c, ok := a.driver.(interface{ Close() }); ok {
		c.Close()
	}
}
