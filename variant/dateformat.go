package variant

import (
	"fmt"
	"strings"
)

// DateFormat is a strftime-like layout for dates. It understands %Y, %m, %d,
// %H, %M, %S, %.3f (dot and milliseconds), %z (always +0000, dates are UTC)
// and %%. Everything else is copied as is.
type DateFormat struct {
	layout string
	tokens []dateToken
}

type dateToken struct {
	literal string
	verb    string
}

var dateVerbs = []string{"%Y", "%m", "%d", "%H", "%M", "%S", "%.3f", "%z", "%%"}

// ParseDateFormat compiles layout. An unknown % sequence is an error.
func ParseDateFormat(layout string) (*DateFormat, error) {
	df := &DateFormat{layout: layout}
	var literal strings.Builder
	for rest := layout; rest != ""; {
		i := strings.IndexByte(rest, '%')
		if i < 0 {
			literal.WriteString(rest)
			break
		}
		literal.WriteString(rest[:i])
		rest = rest[i:]

		verb := ""
		for _, v := range dateVerbs {
			if strings.HasPrefix(rest, v) {
				verb = v
				break
			}
		}
		switch verb {
		case "":
			return nil, fmt.Errorf("unknown date verb at %q in %q", rest, layout)
		case "%%":
			literal.WriteByte('%')
		default:
			if literal.Len() > 0 {
				df.tokens = append(df.tokens, dateToken{literal: literal.String()})
				literal.Reset()
			}
			df.tokens = append(df.tokens, dateToken{verb: verb})
		}
		rest = rest[len(verb):]
	}
	if literal.Len() > 0 {
		df.tokens = append(df.tokens, dateToken{literal: literal.String()})
	}
	return df, nil
}

func (df *DateFormat) String() string {
	return df.layout
}

func (df *DateFormat) FormatSystemTime(st SystemTime) string {
	var sb strings.Builder
	for _, tok := range df.tokens {
		switch tok.verb {
		case "":
			sb.WriteString(tok.literal)
		case "%Y":
			fmt.Fprintf(&sb, "%04d", st.Year)
		case "%m":
			fmt.Fprintf(&sb, "%02d", st.Month)
		case "%d":
			fmt.Fprintf(&sb, "%02d", st.Day)
		case "%H":
			fmt.Fprintf(&sb, "%02d", st.Hour)
		case "%M":
			fmt.Fprintf(&sb, "%02d", st.Minute)
		case "%S":
			fmt.Fprintf(&sb, "%02d", st.Second)
		case "%.3f":
			fmt.Fprintf(&sb, ".%03d", st.Milliseconds)
		case "%z":
			sb.WriteString("+0000")
		}
	}
	return sb.String()
}

// FormatFileTime converts ft like FileTime.Format does, then applies df.
func (df *DateFormat) FormatFileTime(ft FileTime) (string, error) {
	t, err := ft.Time()
	if err != nil {
		return "", err
	}
	return df.FormatSystemTime(SystemTimeFromTime(t)), nil
}

// RenderDate renders scalar FILETIME and SYSTEMTIME fields with df. ok is
// false for every other field, and when df is nil.
func (df *DateFormat) RenderDate(f Field) (s string, ok bool) {
	if df == nil || f.IsArray {
		return "", false
	}
	switch v := f.Value().(type) {
	case FileTime:
		if f.Type != TypeFileTime {
			return "", false
		}
		s, err := df.FormatFileTime(v)
		if err != nil {
			return UnknownDate, true
		}
		return s, true
	case SystemTime:
		if f.Type != TypeSysTime {
			return "", false
		}
		return df.FormatSystemTime(v), true
	}
	return "", false
}
