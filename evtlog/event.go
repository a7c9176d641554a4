package evtlog

import (
	"errors"
	"fmt"
	"io"

	"github.com/quentin-nozomi/evtq/metadata"
	"github.com/quentin-nozomi/evtq/variant"
)

var (
	// ErrNoMoreItems ends an iteration. It is the success terminator of a
	// RecordIterator, never reported to users.
	ErrNoMoreItems = errors.New("no more items")

	// ErrDirectChannel is returned by Subscriber.Subscribe for channels that do
	// not support subscriptions (analytic and debug channels).
	ErrDirectChannel = errors.New("direct channel does not support subscriptions")

	ErrUnsupportedPlatform = fmt.Errorf("event log access requires windows")

	ErrLimitReached = errors.New("event limit reached")
)

// SystemProperties is the fixed block present on every event.
type SystemProperties struct {
	Host        string
	RecordID    uint64
	TimeCreated variant.FileTime
	Provider    string
	EventID     uint16
	Version     uint8

	// Channel is only used for logging.
	Channel string
}

type NamedField struct {
	Name  string
	Value variant.Field
}

// Event is a fully rendered record, ready to be encoded.
type Event struct {
	System SystemProperties
	Fields []NamedField

	// XML is the host rendering of the whole event, when requested.
	XML string
}

func (e *Event) Key() metadata.Key {
	return metadata.Key{
		Provider: e.System.Provider,
		EventID:  uint32(e.System.EventID),
		Version:  uint32(e.System.Version),
	}
}

// Timestamp renders TimeCreated, or variant.UnknownDate when it cannot be converted.
func (e *Event) Timestamp() string {
	s, err := e.System.TimeCreated.Format()
	if err != nil {
		return variant.UnknownDate
	}
	return s
}

// RawEvent is an event as the source hands it over. Implementations backed by
// host handles are only valid until the source moves on; Snapshot copies one
// out. A RawEvent that also implements io.Closer is closed once handled.
type RawEvent interface {
	System() (SystemProperties, error)
	UserFields() ([]variant.Field, error)
	XML() (string, error)
}

// Record is a materialized RawEvent.
type Record struct {
	Sys    SystemProperties
	Values []variant.Field
	Raw    string
}

func (r *Record) System() (SystemProperties, error)    { return r.Sys, nil }
func (r *Record) UserFields() ([]variant.Field, error) { return r.Values, nil }
func (r *Record) XML() (string, error)                 { return r.Raw, nil }

// Snapshot reads everything out of raw so it outlives the source handle.
// The XML rendering is only read when includeXML is set.
func Snapshot(raw RawEvent, includeXML bool) (*Record, error) {
	if r, ok := raw.(*Record); ok {
		return r, nil
	}

	sys, err := raw.System()
	if err != nil {
		return nil, fmt.Errorf("rendering system properties: %w", err)
	}
	fields, err := raw.UserFields()
	if err != nil {
		return nil, fmt.Errorf("rendering user properties: %w", err)
	}
	rec := &Record{Sys: sys, Values: fields}
	if includeXML {
		if rec.Raw, err = raw.XML(); err != nil {
			return nil, fmt.Errorf("rendering xml: %w", err)
		}
	}
	return rec, nil
}

func release(raw RawEvent) {
	if c, ok := raw.(io.Closer); ok {
		_ = c.Close()
	}
}
