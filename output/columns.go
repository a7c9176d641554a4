package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/variant"
)

// Flat outputs default to a fixed shape: the six system columns, then the
// first UserColumns user fields. Missing fields are empty, extra ones are
// dropped.
const (
	SystemColumns = 6
	UserColumns   = 4
	Columns       = SystemColumns + UserColumns
)

type ColumnKind uint8

const (
	ColumnHostname ColumnKind = iota
	ColumnRecordID
	ColumnTimestamp
	ColumnProvider
	ColumnEventID
	ColumnVersion
	ColumnField
)

// Column selects one value of an event. Field is the 1-based position of a
// user field for ColumnField.
type Column struct {
	Kind  ColumnKind
	Field int
}

var columnNames = map[string]ColumnKind{
	"hostname":  ColumnHostname,
	"recordid":  ColumnRecordID,
	"timestamp": ColumnTimestamp,
	"provider":  ColumnProvider,
	"eventid":   ColumnEventID,
	"version":   ColumnVersion,
}

func (c Column) String() string {
	if c.Kind == ColumnField {
		return "variant" + strconv.Itoa(c.Field)
	}
	for name, kind := range columnNames {
		if kind == c.Kind {
			return name
		}
	}
	return fmt.Sprintf("Column(%d)", c.Kind)
}

// DefaultColumns is the TSV layout.
var DefaultColumns = []Column{
	{Kind: ColumnHostname},
	{Kind: ColumnRecordID},
	{Kind: ColumnTimestamp},
	{Kind: ColumnProvider},
	{Kind: ColumnEventID},
	{Kind: ColumnVersion},
	{Kind: ColumnField, Field: 1},
	{Kind: ColumnField, Field: 2},
	{Kind: ColumnField, Field: 3},
	{Kind: ColumnField, Field: 4},
}

// ParseColumns parses a comma separated column list such as
// "timestamp,provider,variant1,...,variant15". "..." between two variantN
// columns stands for every field in between.
func ParseColumns(list string) ([]Column, error) {
	var (
		columns   []Column
		lastField int
		expand    bool
	)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "..." {
			if lastField == 0 || expand {
				return nil, fmt.Errorf("%q must follow a variantN column", name)
			}
			expand = true
			continue
		}

		var col Column
		if kind, ok := columnNames[name]; ok {
			col = Column{Kind: kind}
		} else if n, found := strings.CutPrefix(name, "variant"); found {
			field, err := strconv.Atoi(n)
			if err != nil || field < 1 {
				return nil, fmt.Errorf("unknown column %q", name)
			}
			col = Column{Kind: ColumnField, Field: field}
		} else {
			return nil, fmt.Errorf("unknown column %q", name)
		}

		if expand {
			if col.Kind != ColumnField || col.Field <= lastField {
				return nil, fmt.Errorf("\"...\" must be followed by a variantN column above variant%d", lastField)
			}
			for i := lastField + 1; i < col.Field; i++ {
				columns = append(columns, Column{Kind: ColumnField, Field: i})
			}
			expand = false
		}
		lastField = 0
		if col.Kind == ColumnField {
			lastField = col.Field
		}
		columns = append(columns, col)
	}
	if expand {
		return nil, fmt.Errorf("column list %q ends with \"...\"", list)
	}
	return columns, nil
}

// timestamp renders TimeCreated with df, or the default layout when df is nil.
func timestamp(ev *evtlog.Event, df *variant.DateFormat) string {
	if df == nil {
		return ev.Timestamp()
	}
	s, err := df.FormatFileTime(ev.System.TimeCreated)
	if err != nil {
		return variant.UnknownDate
	}
	return s
}

func renderField(f variant.Field, df *variant.DateFormat) string {
	if s, ok := df.RenderDate(f); ok {
		return s
	}
	return variant.Render(f)
}

func structuredField(f variant.Field, df *variant.DateFormat) any {
	if s, ok := df.RenderDate(f); ok {
		return s
	}
	return variant.RenderStructured(f)
}

// flatColumns renders the selected columns of ev as sanitized strings. User
// fields the event does not have are empty.
func flatColumns(ev *evtlog.Event, columns []Column, df *variant.DateFormat) []string {
	if columns == nil {
		columns = DefaultColumns
	}
	cols := make([]string, len(columns))
	for i, c := range columns {
		switch c.Kind {
		case ColumnHostname:
			cols[i] = ev.System.Host
		case ColumnRecordID:
			cols[i] = strconv.FormatUint(ev.System.RecordID, 10)
		case ColumnTimestamp:
			cols[i] = timestamp(ev, df)
		case ColumnProvider:
			cols[i] = ev.System.Provider
		case ColumnEventID:
			cols[i] = strconv.FormatUint(uint64(ev.System.EventID), 10)
		case ColumnVersion:
			cols[i] = strconv.FormatUint(uint64(ev.System.Version), 10)
		case ColumnField:
			if c.Field <= len(ev.Fields) {
				cols[i] = renderField(ev.Fields[c.Field-1].Value, df)
			}
		}
		cols[i] = variant.Sanitize(cols[i])
	}
	return cols
}
