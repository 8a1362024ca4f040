package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// Entry is a named schema held by the registry.
type Entry struct {
	// Name is the file name without its extension, e.g. "contact" for
	// contact.yaml.
	Name string

	// Path is the file the schema was read from. Empty for schemas
	// registered in code.
	Path string

	// Raw is the decoded document, used for structural validation and lint.
	Raw map[string]any

	// Schema is the typed form of Raw.
	Schema *schema.Schema

	// Checksum is the SHA-256 of the file contents.
	Checksum string

	LoadedAt time.Time
}

// Registry is a thread-safe set of named schemas. Updates swap the whole
// map so readers never observe a partially applied reload.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	version  string
	loadTime time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries:  make(map[string]*Entry),
		loadTime: time.Now(),
	}
}

// Register adds or replaces a single entry.
func (r *Registry) Register(entry *Entry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]*Entry, len(r.entries)+1)
	for name, e := range r.entries {
		next[name] = e
	}
	next[entry.Name] = entry
	r.swap(next)
	return nil
}

// Replace atomically replaces the whole schema set.
func (r *Registry) Replace(entries []*Entry) error {
	next := make(map[string]*Entry, len(entries))
	for _, entry := range entries {
		if err := checkEntry(entry); err != nil {
			return err
		}
		if _, dup := next[entry.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, entry.Name)
		}
		next[entry.Name] = entry
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.swap(next)
	return nil
}

// Get returns the entry for name or ErrSchemaNotFound.
func (r *Registry) Get(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	return entry, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered schemas.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Version is a digest of the registered names and checksums. It changes
// whenever a schema is added, removed or edited.
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// LoadTime returns when the schema set last changed.
func (r *Registry) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadTime
}

// swap must be called with the write lock held.
func (r *Registry) swap(next map[string]*Entry) {
	r.entries = next
	r.loadTime = time.Now()

	names := make([]string, 0, len(next))
	for name := range next {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(next[name].Checksum))
		h.Write([]byte{0})
	}
	r.version = hex.EncodeToString(h.Sum(nil))[:16]
}

func checkEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("schema entry cannot be nil")
	}
	if entry.Name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if entry.Schema == nil {
		entry.Schema = schema.FromMap(entry.Raw)
	}
	return nil
}
