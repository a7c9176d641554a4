package evtlog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// RecordIterator pulls the records of a closed log one at a time. Next returns
// ErrNoMoreItems once the log is exhausted.
type RecordIterator interface {
	Next(ctx context.Context) (RawEvent, error)
	Close() error
}

// HandlerFunc is called once per record, see Processor.Handle.
type HandlerFunc func(ctx context.Context, raw RawEvent) error

type BackupState int32

const (
	BackupOpened BackupState = iota
	BackupIterating
	BackupExhausted
	BackupFailed
)

func (s BackupState) String() string {
	switch s {
	case BackupOpened:
		return "opened"
	case BackupIterating:
		return "iterating"
	case BackupExhausted:
		return "exhausted"
	case BackupFailed:
		return "failed"
	}
	return fmt.Sprintf("BackupState(%d)", int32(s))
}

// BackupReader feeds the records of an iterator to a handler, sequentially.
type BackupReader struct {
	iterator RecordIterator
	state    atomic.Int32
	records  atomic.Uint64
}

func NewBackupReader(iterator RecordIterator) *BackupReader {
	return &BackupReader{iterator: iterator}
}

func (b *BackupReader) State() BackupState {
	return BackupState(b.state.Load())
}

// Records is the number of records handed to the handler.
func (b *BackupReader) Records() uint64 {
	return b.records.Load()
}

// Run iterates until ErrNoMoreItems, which is a success, or until the
// iterator, the handler or ctx fails. The iterator is closed in every case.
func (b *BackupReader) Run(ctx context.Context, handler HandlerFunc) (err error) {
	defer func() {
		closeErr := b.iterator.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("closing backup: %w", closeErr)
		}
		if err != nil {
			b.state.Store(int32(BackupFailed))
		}
	}()

	b.state.Store(int32(BackupIterating))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := b.iterator.Next(ctx)
		if errors.Is(err, ErrNoMoreItems) {
			b.state.Store(int32(BackupExhausted))
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}

		b.records.Add(1)
		err = handler(ctx, raw)
		release(raw)
		if err != nil {
			return err
		}
	}
}

// ReadBackup runs a BackupReader over iterator.
func ReadBackup(ctx context.Context, iterator RecordIterator, handler HandlerFunc) error {
	return NewBackupReader(iterator).Run(ctx, handler)
}
