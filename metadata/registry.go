package metadata

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EventMetadata is one event descriptor of a provider. Err is set when the
// descriptor could not be read; the entry is then skipped with a warning.
type EventMetadata struct {
	EventID  uint32
	Version  uint32
	Template string
	Err      error
}

// ProviderEnumerator lists the providers registered on a host and the event
// descriptors each one declares.
type ProviderEnumerator interface {
	Providers(ctx context.Context) ([]string, error)
	Events(ctx context.Context, provider string) ([]EventMetadata, error)
}

type Registry struct {
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[Key][]string

	populate    sync.Once
	populateErr error
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger:  logger,
		entries: make(map[Key][]string),
	}
}

// Resolve returns the name of the field at index for key k.
func (r *Registry) Resolve(k Key, index int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names, ok := r.entries[k]
	if !ok || index < 0 || index >= len(names) {
		return "", false
	}
	return names[index], true
}

// FieldName is Resolve with the positional fallback "field<index>".
func (r *Registry) FieldName(k Key, index int) string {
	if name, ok := r.Resolve(k, index); ok && name != "" {
		return name
	}
	return "field" + strconv.Itoa(index)
}

// Names returns a copy of the names known for k.
func (r *Registry) Names(k Key) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries[k])
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Set replaces the names of k.
func (r *Registry) Set(k Key, names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[k] = slices.Clone(names)
}

// Keys returns every key, sorted by their string form.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := maps.Keys(r.entries)
	r.mu.RUnlock()

	slices.SortFunc(keys, func(a, b Key) int {
		sa, sb := a.String(), b.String()
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	return keys
}

// merge extends the names of k with names, overwriting by index. Existing
// names past the end of names are kept.
func (r *Registry) merge(k Key, names []string) {
	cur := r.entries[k]
	for i, name := range names {
		if i < len(cur) {
			cur[i] = name
		} else {
			cur = append(cur, name)
		}
	}
	r.entries[k] = cur
}

// PopulateFromHost fills the registry from the templates of every provider the
// enumerator reports. It runs at most once per registry; later calls return the
// result of the first. Only a failure to list providers is returned, failures
// on a single provider or event are logged and skipped.
func (r *Registry) PopulateFromHost(ctx context.Context, enumerator ProviderEnumerator) error {
	r.populate.Do(func() {
		r.populateErr = r.populateFromHost(ctx, enumerator)
	})
	return r.populateErr
}

func (r *Registry) populateFromHost(ctx context.Context, enumerator ProviderEnumerator) error {
	providers, err := enumerator.Providers(ctx)
	if err != nil {
		return fmt.Errorf("listing providers: %w", err)
	}
	r.logger.Debug("populating field names", zap.Int("providers", len(providers)))

	for _, provider := range providers {
		if err := ctx.Err(); err != nil {
			return err
		}
		events, err := enumerator.Events(ctx, provider)
		if err != nil {
			r.logger.Warn("unable to query provider events", zap.String("provider", provider), zap.Error(err))
			continue
		}
		for _, ev := range events {
			if ev.Err != nil {
				r.logger.Warn("unable to query event metadata", zap.String("provider", provider), zap.Error(ev.Err))
				continue
			}
			names, err := ParseTemplate(ev.Template)
			if err != nil {
				r.logger.Warn("unable to parse template",
					zap.String("provider", provider),
					zap.Uint32("event_id", ev.EventID),
					zap.Uint32("version", ev.Version),
					zap.Error(err))
				continue
			}
			if len(names) == 0 {
				continue
			}
			r.Set(Key{Provider: provider, EventID: ev.EventID, Version: ev.Version}, names)
		}
	}
	r.logger.Debug("field names populated", zap.Int("entries", r.Len()))
	return nil
}
