package output

import (
	"bytes"
	"encoding/csv"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/variant"
)

// CSVEncoder writes the selected columns, the TSV ones by default, with
// RFC 4180 quoting.
type CSVEncoder struct {
	Columns    []Column
	DateFormat *variant.DateFormat
}

func (e CSVEncoder) Encode(ev *evtlog.Event) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(flatColumns(ev, e.Columns, e.DateFormat)); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
