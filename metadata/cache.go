package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

var ErrMalformedCache = errors.New("malformed metadata cache")

// Import merges the cache file at path into the registry.
func (r *Registry) Import(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening metadata cache: %w", err)
	}
	defer f.Close()

	if err := r.ImportFrom(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ImportFrom decodes a whole cache document before touching the registry, so a
// malformed document leaves it unchanged. Two spellings of one key, such as
// "P-01-0" and "P-1-0", make the document malformed. Entries are merged: arrays are
// extended and overwritten by index, never shrunk, and keys absent from the
// document are left alone.
func (r *Registry) ImportFrom(reader io.Reader) error {
	var doc map[string][]string
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedCache, err)
	}

	parsed := make(map[Key][]string, len(doc))
	for s, names := range doc {
		k, err := ParseKey(s)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedCache, err)
		}
		if _, dup := parsed[k]; dup {
			return fmt.Errorf("%w: %q duplicates key %s", ErrMalformedCache, s, k)
		}
		parsed[k] = names
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, names := range parsed {
		r.merge(k, names)
	}
	r.logger.Debug("metadata cache imported", zap.Int("entries", len(parsed)))
	return nil
}

// Export writes the registry to path, or to stdout when path is "-".
func (r *Registry) Export(path string) error {
	if path == "-" {
		return r.ExportTo(os.Stdout, true)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metadata cache: %w", err)
	}
	if err := r.ExportTo(f, true); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportTo writes one JSON object mapping every key string to its names.
// Keys come out sorted.
func (r *Registry) ExportTo(w io.Writer, pretty bool) error {
	doc := make(map[string][]string)
	r.mu.RLock()
	for k, names := range r.entries {
		doc[k.String()] = names
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	err := enc.Encode(doc)
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("writing metadata cache: %w", err)
	}
	return nil
}
