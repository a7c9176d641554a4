package output

import (
	"bytes"
	"encoding/json"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/variant"
)

// JSONEncoder writes one object per event: the system keys hostname,
// record_number, timestamp, provider, eventid and version, then the user
// fields by name, in order. A name seen twice keeps its first position and
// its last value. Columns, when set, restricts and orders the members;
// selected fields the event does not have are left out.
type JSONEncoder struct {
	Pretty     bool
	Columns    []Column
	DateFormat *variant.DateFormat
}

type member struct {
	key   string
	value any
}

func (e JSONEncoder) systemMember(ev *evtlog.Event, kind ColumnKind) member {
	switch kind {
	case ColumnHostname:
		return member{"hostname", ev.System.Host}
	case ColumnRecordID:
		return member{"record_number", ev.System.RecordID}
	case ColumnTimestamp:
		return member{"timestamp", timestamp(ev, e.DateFormat)}
	case ColumnProvider:
		return member{"provider", ev.System.Provider}
	case ColumnEventID:
		return member{"eventid", ev.System.EventID}
	default:
		return member{"version", ev.System.Version}
	}
}

func (e JSONEncoder) members(ev *evtlog.Event) []member {
	var members []member
	index := make(map[string]int, SystemColumns+len(ev.Fields))
	add := func(m member) {
		if i, ok := index[m.key]; ok {
			members[i].value = m.value
			return
		}
		index[m.key] = len(members)
		members = append(members, m)
	}
	addField := func(f evtlog.NamedField) {
		add(member{f.Name, structuredField(f.Value, e.DateFormat)})
	}

	if e.Columns == nil {
		for kind := ColumnHostname; kind <= ColumnVersion; kind++ {
			add(e.systemMember(ev, kind))
		}
		for _, f := range ev.Fields {
			addField(f)
		}
		return members
	}
	for _, c := range e.Columns {
		switch {
		case c.Kind != ColumnField:
			add(e.systemMember(ev, c.Kind))
		case c.Field <= len(ev.Fields):
			addField(ev.Fields[c.Field-1])
		}
	}
	return members
}

func (e JSONEncoder) Encode(ev *evtlog.Event) ([]byte, error) {
	members := e.members(ev)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	if e.Pretty {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, buf.Bytes(), "", "  "); err != nil {
			return nil, err
		}
		buf = pretty
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
