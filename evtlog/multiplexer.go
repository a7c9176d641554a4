package evtlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SubscribeMode int

const (
	// FutureEvents only delivers events written after the subscription.
	FutureEvents SubscribeMode = iota
	// ExistingEvents replays the records already in the channel first.
	ExistingEvents
)

// Subscription is a live push subscription to one channel.
type Subscription interface {
	Close() error
}

// Subscriber is a host exposing channels that can be subscribed to. deliver
// is called from host threads, possibly concurrently across subscriptions,
// and the RawEvent it receives is only valid for the duration of the call.
type Subscriber interface {
	Channels(ctx context.Context) ([]string, error)
	Subscribe(ctx context.Context, channel string, mode SubscribeMode, deliver func(RawEvent)) (Subscription, error)
}

type MultiplexerState int32

const (
	MuxEnumerating MultiplexerState = iota
	MuxSubscribed
	MuxDraining
	MuxDone
)

func (s MultiplexerState) String() string {
	switch s {
	case MuxEnumerating:
		return "enumerating"
	case MuxSubscribed:
		return "subscribed"
	case MuxDraining:
		return "draining"
	case MuxDone:
		return "done"
	}
	return fmt.Sprintf("MultiplexerState(%d)", int32(s))
}

type MultiplexerConfig struct {
	// Follow keeps the subscriptions open until the context is canceled.
	// Otherwise existing records are replayed and Run returns once no event
	// arrived for a whole QuiescenceWindow.
	Follow           bool
	QuiescenceWindow time.Duration
	// QueueSize bounds the events buffered per subscription.
	QueueSize int
	// IncludeXML is forwarded to Snapshot.
	IncludeXML bool

	Logger *zap.Logger
}

// Multiplexer subscribes to every channel of a Subscriber and funnels the
// events to one handler. Events of a channel are handled in delivery order by
// a goroutine dedicated to that channel.
type Multiplexer struct {
	subscriber Subscriber
	cfg        MultiplexerConfig
	logger     *zap.Logger

	state     atomic.Int32
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func NewMultiplexer(subscriber Subscriber, cfg MultiplexerConfig) *Multiplexer {
	if cfg.QuiescenceWindow <= 0 {
		cfg.QuiescenceWindow = time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Multiplexer{subscriber: subscriber, cfg: cfg, logger: logger}
}

func (m *Multiplexer) State() MultiplexerState {
	return MultiplexerState(m.state.Load())
}

// Delivered counts the events received from every subscription.
func (m *Multiplexer) Delivered() uint64 {
	return m.delivered.Load()
}

// Dropped counts the events that could not be snapshotted or arrived while
// draining.
func (m *Multiplexer) Dropped() uint64 {
	return m.dropped.Load()
}

type channelQueue struct {
	channel string
	events  chan RawEvent
	handle  Subscription

	mu     sync.RWMutex
	closed bool
}

func (q *channelQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
}

// Run subscribes to every channel and hands events to handler until the
// stream is drained: quiescence without Follow, ctx cancellation with it.
// Queued events are still handled after ctx is canceled. The first handler
// error stops every subscription and is returned.
func (m *Multiplexer) Run(ctx context.Context, handler HandlerFunc) error {
	m.state.Store(int32(MuxEnumerating))
	defer m.state.Store(int32(MuxDone))

	channels, err := m.subscriber.Channels(ctx)
	if err != nil {
		return fmt.Errorf("enumerating channels: %w", err)
	}

	mode := ExistingEvents
	if m.cfg.Follow {
		mode = FutureEvents
	}

	group, groupCtx := errgroup.WithContext(context.WithoutCancel(ctx))
	var queues []*channelQueue
	for _, channel := range channels {
		if ctx.Err() != nil {
			break
		}

		q := &channelQueue{channel: channel, events: make(chan RawEvent, m.cfg.QueueSize)}
		group.Go(func() error {
			return m.consume(groupCtx, q, handler)
		})

		handle, err := m.subscriber.Subscribe(ctx, channel, mode, func(raw RawEvent) {
			m.deliver(groupCtx, q, raw)
		})
		if err != nil {
			q.close()
			if errors.Is(err, ErrDirectChannel) {
				m.logger.Debug("skipping direct channel", zap.String("channel", channel))
			} else {
				m.logger.Warn("unable to subscribe", zap.String("channel", channel), zap.Error(err))
			}
			continue
		}
		q.handle = handle
		queues = append(queues, q)
	}

	m.state.Store(int32(MuxSubscribed))
	m.logger.Info("subscribed to channels",
		zap.Int("subscribed", len(queues)),
		zap.Int("channels", len(channels)),
		zap.Bool("follow", m.cfg.Follow))

	m.wait(ctx, groupCtx)

	m.state.Store(int32(MuxDraining))
	for _, q := range queues {
		if err := q.handle.Close(); err != nil {
			m.logger.Warn("unable to close subscription", zap.String("channel", q.channel), zap.Error(err))
		}
		q.close()
	}
	return group.Wait()
}

// wait blocks until the stream is considered drained, ctx is canceled or a
// consumer failed.
func (m *Multiplexer) wait(ctx, groupCtx context.Context) {
	if m.cfg.Follow {
		select {
		case <-ctx.Done():
		case <-groupCtx.Done():
		}
		return
	}

	ticker := time.NewTicker(m.cfg.QuiescenceWindow)
	defer ticker.Stop()

	last := m.delivered.Load()
	for {
		select {
		case <-ctx.Done():
			return
		case <-groupCtx.Done():
			return
		case <-ticker.C:
			current := m.delivered.Load()
			if current == last {
				m.logger.Debug("no event for a whole window, draining",
					zap.Duration("window", m.cfg.QuiescenceWindow),
					zap.Uint64("delivered", current))
				return
			}
			last = current
		}
	}
}

// deliver runs on host threads. It blocks while the queue is full, until the
// consumer catches up or the multiplexer stops.
func (m *Multiplexer) deliver(groupCtx context.Context, q *channelQueue, raw RawEvent) {
	m.delivered.Add(1)

	rec, err := Snapshot(raw, m.cfg.IncludeXML)
	if err != nil {
		m.dropped.Add(1)
		m.logger.Warn("unable to render event", zap.String("channel", q.channel), zap.Error(err))
		return
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		m.dropped.Add(1)
		return
	}
	select {
	case q.events <- rec:
	case <-groupCtx.Done():
		m.dropped.Add(1)
	}
}

func (m *Multiplexer) consume(groupCtx context.Context, q *channelQueue, handler HandlerFunc) error {
	for rec := range q.events {
		if groupCtx.Err() != nil {
			return nil
		}
		if err := handler(groupCtx, rec); err != nil {
			return err
		}
	}
	return nil
}
