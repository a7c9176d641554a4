package output

import (
	"strings"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/variant"
)

// TSVEncoder writes one line of exactly Columns tab-separated columns per
// event. Sanitizing removes tabs and newlines from values, so columns never
// shift.
type TSVEncoder struct {
	// DateFormat overrides the layout of dates, nil keeps the default.
	DateFormat *variant.DateFormat
}

func (e TSVEncoder) Encode(ev *evtlog.Event) ([]byte, error) {
	line := strings.Join(flatColumns(ev, DefaultColumns, e.DateFormat), "\t")
	return []byte(line + "\n"), nil
}
