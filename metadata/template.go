package metadata

import (
	"errors"
	"strings"
)

const dataNamePrefix = `<data name="`

var ErrUnterminatedName = errors.New("unterminated field name in template")

// ParseTemplate extracts, in order, the names of the <data name="..."> elements
// of an event template. The element prefix is matched case-insensitively.
// Empty names are skipped; a name without its closing quote fails the whole
// template.
func ParseTemplate(template string) ([]string, error) {
	var names []string
	for i := 0; i+len(dataNamePrefix) <= len(template); i++ {
		if !strings.EqualFold(template[i:i+len(dataNamePrefix)], dataNamePrefix) {
			continue
		}
		start := i + len(dataNamePrefix)
		end := strings.IndexByte(template[start:], '"')
		if end < 0 {
			return nil, ErrUnterminatedName
		}
		if end > 0 {
			names = append(names, template[start:start+end])
		}
		i = start + end
	}
	return names, nil
}
