package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/schema/validator"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".json", ".yaml", ".yml"}

// Loader reads schema files from disk.
type Loader struct {
	// Strict rejects files that fail structural validation.
	Strict bool
}

// NameFromPath returns the schema name of a file: its base name without the
// extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsSchemaFile reports whether path has a schema extension and is not hidden.
func IsSchemaFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// LoadFile reads one schema file.
func (l *Loader) LoadFile(path string) (*Entry, error) {
	format, err := schema.FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	if info.Size() > schema.DefaultMaxDocumentSize {
		return nil, &LoadError{
			Path:  path,
			Cause: fmt.Errorf("size %d exceeds maximum %d bytes", info.Size(), schema.DefaultMaxDocumentSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	raw, err := schema.ParseDocument(data, format, path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	if l.Strict {
		if err := validator.AssertValid(raw); err != nil {
			return nil, &LoadError{Path: path, Cause: err}
		}
	}

	sum := sha256.Sum256(data)
	return &Entry{
		Name:     NameFromPath(path),
		Path:     path,
		Raw:      raw,
		Schema:   schema.FromMap(raw),
		Checksum: hex.EncodeToString(sum[:]),
		LoadedAt: time.Now(),
	}, nil
}

// Load reads a single schema file, or every schema file below a directory.
// Hidden files and directories are skipped. The returned entries are sorted
// by name; err is a LoadErrors listing every file that failed.
func (l *Loader) Load(path string) ([]*Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	if !info.IsDir() {
		entry, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []*Entry{entry}, nil
	}

	var (
		entries []*Entry
		failed  LoadErrors
		seen    = make(map[string]string)
	)
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSchemaFile(p) {
			return nil
		}

		entry, err := l.LoadFile(p)
		if err != nil {
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				loadErr = &LoadError{Path: p, Cause: err}
			}
			failed = append(failed, loadErr)
			return nil
		}
		if first, dup := seen[entry.Name]; dup {
			failed = append(failed, &LoadError{
				Path:  p,
				Cause: fmt.Errorf("%w: %q already defined by %s", ErrDuplicateName, entry.Name, first),
			})
			return nil
		}
		seen[entry.Name] = p
		entries = append(entries, entry)
		return nil
	})
	if walkErr != nil {
		return nil, &LoadError{Path: path, Cause: walkErr}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	if len(failed) > 0 {
		return entries, failed
	}
	return entries, nil
}
