// Package stats counts processed events per metadata key.
package stats

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Entry struct {
	Key   string
	Count uint64
}

// Table is safe for concurrent use.
type Table struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func NewTable() *Table {
	return &Table{counts: make(map[string]uint64)}
}

func (t *Table) Increment(key string) {
	t.mu.Lock()
	t.counts[key]++
	t.mu.Unlock()
}

func (t *Table) Total() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total uint64
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Report returns every counter, by count descending then key descending.
func (t *Table) Report() []Entry {
	t.mu.Lock()
	keys := maps.Keys(t.counts)
	report := make([]Entry, len(keys))
	for i, k := range keys {
		report[i] = Entry{Key: k, Count: t.counts[k]}
	}
	t.mu.Unlock()

	slices.SortFunc(report, func(a, b Entry) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return strings.Compare(b.Key, a.Key)
	})
	return report
}

// WriteReport writes one "count<TAB>key" line per entry, in Report order.
func (t *Table) WriteReport(w io.Writer) error {
	for _, e := range t.Report() {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", e.Count, e.Key); err != nil {
			return err
		}
	}
	return nil
}
