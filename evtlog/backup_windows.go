package evtlog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/quentin-nozomi/evtq/winapi"
)

const backupBatchSize = 64

type backupIterator struct {
	results winapi.EvtHandle
	batch   [backupBatchSize]winapi.EvtHandle
	pending []winapi.EvtHandle
}

// OpenBackup queries the records of an .evtx file, oldest first. An empty
// query selects every record.
// https://learn.microsoft.com/en-us/windows/win32/wes/querying-for-events
func OpenBackup(path, query string) (RecordIterator, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	pathPtr, err := windows.UTF16PtrFromString(abs)
	if err != nil {
		return nil, err
	}
	var queryPtr *uint16
	if query != "" && query != "*" {
		if queryPtr, err = windows.UTF16PtrFromString(query); err != nil {
			return nil, err
		}
	}

	results, err := winapi.EvtQuery(0, pathPtr, queryPtr, winapi.EvtQueryFilePath|winapi.EvtQueryForwardDirection)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", abs, err)
	}
	return &backupIterator{results: results}, nil
}

func (it *backupIterator) Next(ctx context.Context) (RawEvent, error) {
	if len(it.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var returned uint32
		err := winapi.EvtNext(it.results, it.batch[:], windows.INFINITE, &returned)
		if errors.Is(err, winapi.ERROR_NO_MORE_ITEMS) {
			return nil, ErrNoMoreItems
		}
		if err != nil {
			return nil, err
		}
		it.pending = it.batch[:returned]
		if len(it.pending) == 0 {
			return nil, ErrNoMoreItems
		}
	}

	ev := &hostEvent{handle: it.pending[0], owned: true}
	it.pending = it.pending[1:]
	return ev, nil
}

func (it *backupIterator) Close() error {
	for _, h := range it.pending {
		_ = winapi.EvtClose(h)
	}
	it.pending = nil
	return winapi.EvtClose(it.results)
}
