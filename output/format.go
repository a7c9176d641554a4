package output

import (
	"fmt"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/variant"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatTSV  Format = "tsv"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// EncoderOptions tune the encoders. Pretty only applies to JSON, Columns to
// JSON and CSV, DateFormat to every format but XML.
type EncoderOptions struct {
	Pretty     bool
	Columns    []Column
	DateFormat *variant.DateFormat
}

// NewEncoder returns the encoder of f.
func NewEncoder(f Format, opts EncoderOptions) (evtlog.Encoder, error) {
	if opts.Columns != nil && !f.SelectsColumns() {
		return nil, fmt.Errorf("%s output has fixed columns", f)
	}
	switch f {
	case FormatJSON:
		return JSONEncoder{Pretty: opts.Pretty, Columns: opts.Columns, DateFormat: opts.DateFormat}, nil
	case FormatTSV:
		return TSVEncoder{DateFormat: opts.DateFormat}, nil
	case FormatCSV:
		return CSVEncoder{Columns: opts.Columns, DateFormat: opts.DateFormat}, nil
	case FormatXML:
		return XMLEncoder{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", string(f))
}

// NeedsXML reports whether events must be rendered as XML by the source.
func (f Format) NeedsXML() bool {
	return f == FormatXML
}

// SelectsColumns reports whether f accepts a column selection.
func (f Format) SelectsColumns() bool {
	return f == FormatJSON || f == FormatCSV
}
