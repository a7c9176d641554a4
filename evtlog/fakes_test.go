package evtlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quentin-nozomi/evtq/variant"
)

func testRecord(provider string, eventID uint16, recordID uint64, fields ...variant.Field) *Record {
	return &Record{
		Sys: SystemProperties{
			Host:        "WS01",
			RecordID:    recordID,
			TimeCreated: variant.FileTimeFromTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
			Provider:    provider,
			EventID:     eventID,
			Channel:     "Application",
		},
		Values: fields,
	}
}

type sliceIterator struct {
	records []RawEvent
	failAt  int
	next    int
	closed  bool
}

func (it *sliceIterator) Next(context.Context) (RawEvent, error) {
	if it.failAt > 0 && it.next == it.failAt {
		return nil, errors.New("read failure")
	}
	if it.next >= len(it.records) {
		return nil, ErrNoMoreItems
	}
	it.next++
	return it.records[it.next-1], nil
}

func (it *sliceIterator) Close() error {
	it.closed = true
	return nil
}

// brokenEvent fails every render.
type brokenEvent struct{ closed bool }

func (b *brokenEvent) System() (SystemProperties, error) {
	return SystemProperties{}, errors.New("render failure")
}
func (b *brokenEvent) UserFields() ([]variant.Field, error) { return nil, errors.New("render failure") }
func (b *brokenEvent) XML() (string, error)                 { return "", errors.New("render failure") }
func (b *brokenEvent) Close() error {
	b.closed = true
	return nil
}

// lineEncoder writes "provider/eventid/recordid name=value..." lines.
type lineEncoder struct{}

func (lineEncoder) Encode(ev *Event) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/%d/%d", ev.System.Provider, ev.System.EventID, ev.System.RecordID)
	for _, f := range ev.Fields {
		fmt.Fprintf(&sb, " %s=%s", f.Name, variant.Render(f.Value))
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

type memoryEmitter struct {
	mu      sync.Mutex
	records []string
	err     error
}

func (m *memoryEmitter) Emit(_ context.Context, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, string(record))
	return nil
}

func (m *memoryEmitter) Records() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.records...)
}

type fakeSubscription struct {
	stop   chan struct{}
	done   chan struct{}
	closed bool
}

func (s *fakeSubscription) Close() error {
	if !s.closed {
		s.closed = true
		close(s.stop)
		<-s.done
	}
	return nil
}

// fakeSubscriber delivers, per channel, events on its own goroutine, waiting
// interval between two of them.
type fakeSubscriber struct {
	channels map[string]int
	direct   map[string]bool
	interval time.Duration

	mu            sync.Mutex
	modes         map[string]SubscribeMode
	lastDelivered time.Time
	subs          []*fakeSubscription
}

func (f *fakeSubscriber) Channels(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.channels)+len(f.direct))
	for name := range f.channels {
		names = append(names, name)
	}
	for name := range f.direct {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeSubscriber) Subscribe(_ context.Context, channel string, mode SubscribeMode, deliver func(RawEvent)) (Subscription, error) {
	if f.direct[channel] {
		return nil, fmt.Errorf("subscribing to %s: %w", channel, ErrDirectChannel)
	}

	f.mu.Lock()
	if f.modes == nil {
		f.modes = make(map[string]SubscribeMode)
	}
	f.modes[channel] = mode
	sub := &fakeSubscription{stop: make(chan struct{}), done: make(chan struct{})}
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	count := f.channels[channel]
	go func() {
		defer close(sub.done)
		for i := 0; i < count; i++ {
			select {
			case <-sub.stop:
				return
			case <-time.After(f.interval):
			}
			rec := testRecord(channel, uint16(i), uint64(i+1))
			rec.Sys.Channel = channel
			f.mu.Lock()
			f.lastDelivered = time.Now()
			f.mu.Unlock()
			deliver(rec)
		}
	}()
	return sub, nil
}

func (f *fakeSubscriber) LastDelivered() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastDelivered
}
