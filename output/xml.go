package output

import (
	"encoding/xml"
	"strings"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/variant"
)

const eventNamespace = "http://schemas.microsoft.com/win/2004/08/events/event"

// XMLEncoder writes the host rendering of each event on its own line. When the
// source provided none, an equivalent <Event> document is built from the
// rendered record.
type XMLEncoder struct{}

type xmlEvent struct {
	XMLName xml.Name  `xml:"Event"`
	Xmlns   string    `xml:"xmlns,attr"`
	System  xmlSystem `xml:"System"`
	Data    []xmlData `xml:"EventData>Data"`
}

type xmlSystem struct {
	Provider struct {
		Name string `xml:"Name,attr"`
	} `xml:"Provider"`
	EventID     uint16 `xml:"EventID"`
	Version     uint8  `xml:"Version"`
	TimeCreated struct {
		SystemTime string `xml:"SystemTime,attr"`
	} `xml:"TimeCreated"`
	EventRecordID uint64 `xml:"EventRecordID"`
	Channel       string `xml:"Channel,omitempty"`
	Computer      string `xml:"Computer"`
}

type xmlData struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

func (XMLEncoder) Encode(ev *evtlog.Event) ([]byte, error) {
	if ev.XML != "" {
		return []byte(strings.TrimRight(ev.XML, "\r\n") + "\n"), nil
	}

	doc := xmlEvent{Xmlns: eventNamespace}
	doc.System.Provider.Name = ev.System.Provider
	doc.System.EventID = ev.System.EventID
	doc.System.Version = ev.System.Version
	doc.System.TimeCreated.SystemTime = ev.Timestamp()
	doc.System.EventRecordID = ev.System.RecordID
	doc.System.Channel = ev.System.Channel
	doc.System.Computer = ev.System.Host
	for _, f := range ev.Fields {
		doc.Data = append(doc.Data, xmlData{Name: f.Name, Value: variant.Render(f.Value)})
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
