// Package output serializes rendered events and writes them, one whole record
// at a time, to the destination stream.
package output

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

var ErrPipelineClosed = errors.New("output pipeline closed")

// Pipeline is the single writer of a destination. Records emitted from any
// number of goroutines are queued and written whole, in queue order.
type Pipeline struct {
	w      *bufio.Writer
	logger *zap.Logger

	queue chan []byte
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	err   error

	written uint64
}

func NewPipeline(dst io.Writer, queueSize int, logger *zap.Logger) *Pipeline {
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		w:      bufio.NewWriter(dst),
		logger: logger,
		queue:  make(chan []byte, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Emit queues one complete record. It blocks while the queue is full and
// returns early when ctx is done or a previous write failed.
func (p *Pipeline) Emit(ctx context.Context, record []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPipelineClosed
	}
	if err := p.Err(); err != nil {
		return err
	}

	select {
	case p.queue <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the first write error, if any.
func (p *Pipeline) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

func (p *Pipeline) fail(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.err == nil {
		p.err = fmt.Errorf("writing output: %w", err)
		p.logger.Error("output write failed", zap.Error(err))
	}
}

// Close writes every queued record, flushes, and returns the first write
// error. It does not close the destination.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
	return p.Err()
}

func (p *Pipeline) run() {
	defer close(p.done)

	for record := range p.queue {
		if p.Err() != nil {
			continue
		}
		if _, err := p.w.Write(record); err != nil {
			p.fail(err)
			continue
		}
		p.written++
		if len(p.queue) == 0 {
			if err := p.w.Flush(); err != nil {
				p.fail(err)
			}
		}
	}
	if p.Err() == nil {
		if err := p.w.Flush(); err != nil {
			p.fail(err)
		}
	}
	p.logger.Debug("output pipeline closed", zap.Uint64("records", p.written))
}
