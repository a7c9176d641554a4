package evtlog

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/quentin-nozomi/evtq/metadata"
	"github.com/quentin-nozomi/evtq/stats"
)

// Encoder turns one rendered event into the bytes of one output record.
type Encoder interface {
	Encode(ev *Event) ([]byte, error)
}

// Emitter writes whole records. Implementations must not interleave records
// emitted concurrently.
type Emitter interface {
	Emit(ctx context.Context, record []byte) error
}

type ProcessorConfig struct {
	Encoder Encoder
	Emitter Emitter

	// Registry names user fields; nil names every field positionally.
	Registry *metadata.Registry
	// Stats is optional.
	Stats *stats.Table

	// IncludeXML asks the source for its XML rendering of every event.
	IncludeXML bool
	// Limit stops processing after that many events, 0 means no limit.
	Limit uint64

	Logger *zap.Logger
}

// Processor is the render callback shared by every source. Handle is safe for
// concurrent use.
type Processor struct {
	cfg    ProcessorConfig
	logger *zap.Logger

	claimed   atomic.Uint64
	processed atomic.Uint64
}

func NewProcessor(cfg ProcessorConfig) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{cfg: cfg, logger: logger}
}

// Processed is the number of events emitted so far.
func (p *Processor) Processed() uint64 {
	return p.processed.Load()
}

// Handle renders, counts, encodes and emits raw. Events that cannot be
// rendered are logged and skipped. Errors returned stop the source:
// emitter failures, and ErrLimitReached once the limit is hit.
func (p *Processor) Handle(ctx context.Context, raw RawEvent) error {
	if p.cfg.Limit > 0 && p.claimed.Add(1) > p.cfg.Limit {
		return ErrLimitReached
	}

	ev, ok := p.render(raw)
	if !ok {
		p.unclaim()
		return nil
	}

	record, err := p.cfg.Encoder.Encode(ev)
	if err != nil {
		p.logger.Warn("unable to encode event", eventFields(ev, err)...)
		p.unclaim()
		return nil
	}
	if err := p.cfg.Emitter.Emit(ctx, record); err != nil {
		return fmt.Errorf("emitting event: %w", err)
	}

	if p.cfg.Stats != nil {
		p.cfg.Stats.Increment(ev.Key().String())
	}
	n := p.processed.Add(1)
	if p.cfg.Limit > 0 && n >= p.cfg.Limit {
		return ErrLimitReached
	}
	return nil
}

// unclaim gives back the slot of a skipped event.
func (p *Processor) unclaim() {
	if p.cfg.Limit > 0 {
		p.claimed.Add(^uint64(0))
	}
}

func (p *Processor) render(raw RawEvent) (*Event, bool) {
	sys, err := raw.System()
	if err != nil {
		p.logger.Warn("unable to render system properties", zap.Error(err))
		return nil, false
	}
	ev := &Event{System: sys}

	values, err := raw.UserFields()
	if err != nil {
		p.logger.Warn("unable to render user properties", eventFields(ev, err)...)
		return nil, false
	}

	key := ev.Key()
	ev.Fields = make([]NamedField, len(values))
	for i, v := range values {
		name := fmt.Sprintf("field%d", i)
		if p.cfg.Registry != nil {
			name = p.cfg.Registry.FieldName(key, i)
		}
		if err := v.Err(); err != nil {
			p.logger.Debug("field rendered as sentinel", append(eventFields(ev, err), zap.String("field", name))...)
		}
		ev.Fields[i] = NamedField{Name: name, Value: v}
	}

	if p.cfg.IncludeXML {
		if ev.XML, err = raw.XML(); err != nil {
			p.logger.Warn("unable to render event xml", eventFields(ev, err)...)
		}
	}
	return ev, true
}

func eventFields(ev *Event, err error) []zap.Field {
	return []zap.Field{
		zap.String("provider", ev.System.Provider),
		zap.Uint16("event_id", ev.System.EventID),
		zap.Uint8("version", ev.System.Version),
		zap.String("channel", ev.System.Channel),
		zap.Error(err),
	}
}
