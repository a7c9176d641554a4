// Package metadata maps (provider, event id, version) to the ordered names of
// an event's user fields.
//
// Names come from two places: the templates of the providers registered on the
// host, and a JSON cache file exported from another run. Lookups that miss are
// not errors; callers fall back to a positional name.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

type Key struct {
	Provider string
	EventID  uint32
	Version  uint32
}

// String is the cache file key: "<provider>-<eventId>-<version>".
func (k Key) String() string {
	return fmt.Sprintf("%s-%d-%d", k.Provider, k.EventID, k.Version)
}

// ParseKey reverses Key.String. Provider names may contain dashes, so the two
// numeric parts are taken from the right.
func ParseKey(s string) (Key, error) {
	vi := strings.LastIndexByte(s, '-')
	if vi <= 0 {
		return Key{}, fmt.Errorf("key %q: missing version", s)
	}
	ei := strings.LastIndexByte(s[:vi], '-')
	if ei <= 0 {
		return Key{}, fmt.Errorf("key %q: missing event id", s)
	}

	eventID, err := strconv.ParseUint(s[ei+1:vi], 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: event id: %w", s, err)
	}
	version, err := strconv.ParseUint(s[vi+1:], 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: version: %w", s, err)
	}
	return Key{Provider: s[:ei], EventID: uint32(eventID), Version: uint32(version)}, nil
}
