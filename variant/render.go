package variant

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/quentin-nozomi/evtq/winguid"
)

const (
	UnknownSID  = "<unknown SID?>"
	UnknownDate = "<unknown date?>"
)

// ErrUnrenderable is reported by Field.Err for unknown tags and mismatched payloads.
var ErrUnrenderable = fmt.Errorf("unrenderable field")

func unknownTypeText(raw uint32) string {
	return fmt.Sprintf("<type=%d ?>", raw)
}

func unknownTypeValue(raw uint32) string {
	return fmt.Sprintf("<unknown field type %d>", raw)
}

// Render formats f for flat text outputs. Arrays are rendered as [a,b,...];
// encoders that need another join use RenderElements.
func Render(f Field) string {
	if !f.IsArray {
		if f.Type == TypeNull {
			return ""
		}
		if len(f.elements) != 1 {
			return unknownTypeText(f.RawType())
		}
		s, ok := renderScalar(f.Type, f.elements[0])
		if !ok {
			return unknownTypeText(f.RawType())
		}
		return s
	}
	return "[" + strings.Join(RenderElements(f), ",") + "]"
}

// RenderElements renders every element of f with the scalar rule of its tag.
// A scalar field yields a single element.
func RenderElements(f Field) []string {
	out := make([]string, len(f.elements))
	for i, e := range f.elements {
		s, ok := renderScalar(f.Type, e)
		if !ok {
			s = unknownTypeText(f.RawType())
		}
		out[i] = s
	}
	return out
}

// RenderStructured converts f to a value encoding/json can marshal: int64,
// uint64, float64, bool, string, nil, or []any for arrays.
func RenderStructured(f Field) any {
	if !f.IsArray {
		if f.Type == TypeNull {
			return nil
		}
		if len(f.elements) != 1 {
			return unknownTypeValue(f.RawType())
		}
		return structuredScalar(f.Type, f.RawType(), f.elements[0])
	}
	out := make([]any, len(f.elements))
	for i, e := range f.elements {
		out[i] = structuredScalar(f.Type, f.RawType(), e)
	}
	return out
}

// Err reports why some element of f cannot be rendered faithfully: unknown tag,
// payload not matching the tag, or a SID / FILETIME conversion failure.
// Renderers substitute sentinels in those cases; Err exists so callers can log.
func (f Field) Err() error {
	if f.Type == TypeNull {
		return nil
	}
	if !f.IsArray && len(f.elements) != 1 {
		return fmt.Errorf("%w: %s scalar without payload", ErrUnrenderable, f.Type)
	}
	for _, e := range f.elements {
		switch v := e.(type) {
		case SID:
			if f.Type == TypeSid {
				if _, err := v.Format(); err != nil {
					return err
				}
			}
		case FileTime:
			if f.Type == TypeFileTime {
				if _, err := v.Time(); err != nil {
					return err
				}
			}
		}
		if _, ok := renderScalar(f.Type, e); !ok {
			return fmt.Errorf("%w: %s with %T payload", ErrUnrenderable, f.Type, e)
		}
	}
	return nil
}

func formatSigned[T constraints.Signed](v any) (string, bool) {
	n, ok := v.(T)
	if !ok {
		return "", false
	}
	return strconv.FormatInt(int64(n), 10), true
}

func formatUnsigned[T constraints.Unsigned](v any) (string, bool) {
	n, ok := v.(T)
	if !ok {
		return "", false
	}
	return strconv.FormatUint(uint64(n), 10), true
}

func formatFloat[T constraints.Float](v any, bitSize int) (string, bool) {
	n, ok := v.(T)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(float64(n), 'f', 6, bitSize), true
}

// renderScalar returns false when the payload does not match the tag or the
// tag is unknown; conversion failures render their own sentinel and succeed.
func renderScalar(t Type, v any) (string, bool) {
	switch t {
	case TypeNull:
		return "", v == nil
	case TypeString, TypeAnsiString, TypeEvtXml:
		s, ok := v.(string)
		return s, ok
	case TypeSByte:
		return formatSigned[int8](v)
	case TypeInt16:
		return formatSigned[int16](v)
	case TypeInt32:
		return formatSigned[int32](v)
	case TypeInt64:
		return formatSigned[int64](v)
	case TypeByte:
		return formatUnsigned[uint8](v)
	case TypeUInt16:
		return formatUnsigned[uint16](v)
	case TypeUInt32:
		return formatUnsigned[uint32](v)
	case TypeUInt64, TypeSizeT:
		return formatUnsigned[uint64](v)
	case TypeSingle:
		return formatFloat[float32](v, 32)
	case TypeDouble:
		return formatFloat[float64](v, 64)
	case TypeBoolean:
		b, ok := v.(bool)
		return strconv.FormatBool(b), ok
	case TypeBinary:
		b, ok := v.([]byte)
		return fmt.Sprintf("%X", b), ok
	case TypeGuid:
		g, ok := v.(winguid.GUID)
		return g.String(), ok
	case TypeHexInt32:
		n, ok := v.(uint32)
		return fmt.Sprintf("%04X", n), ok
	case TypeHexInt64:
		n, ok := v.(uint64)
		return fmt.Sprintf("%08X", n), ok
	case TypeFileTime:
		ft, ok := v.(FileTime)
		if !ok {
			return "", false
		}
		s, err := ft.Format()
		if err != nil {
			return UnknownDate, true
		}
		return s, true
	case TypeSysTime:
		st, ok := v.(SystemTime)
		return st.String(), ok
	case TypeSid:
		sid, ok := v.(SID)
		if !ok {
			return "", false
		}
		s, err := sid.Format()
		if err != nil {
			return UnknownSID, true
		}
		return s, true
	}
	return "", false
}

func structuredScalar(t Type, raw uint32, v any) any {
	var out any
	ok := true
	switch t {
	case TypeSByte:
		var n int8
		n, ok = v.(int8)
		out = int64(n)
	case TypeInt16:
		var n int16
		n, ok = v.(int16)
		out = int64(n)
	case TypeInt32:
		var n int32
		n, ok = v.(int32)
		out = int64(n)
	case TypeInt64:
		out, ok = v.(int64)
	case TypeByte:
		var n uint8
		n, ok = v.(uint8)
		out = uint64(n)
	case TypeUInt16:
		var n uint16
		n, ok = v.(uint16)
		out = uint64(n)
	case TypeUInt32, TypeHexInt32:
		var n uint32
		n, ok = v.(uint32)
		out = uint64(n)
	case TypeUInt64, TypeSizeT, TypeHexInt64:
		out, ok = v.(uint64)
	case TypeSingle:
		var n float32
		n, ok = v.(float32)
		// shortest float32 text, so 1.1 stays 1.1 once widened
		f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(n), 'g', -1, 32), 64)
		out = structuredFloat(f)
	case TypeDouble:
		var n float64
		n, ok = v.(float64)
		out = structuredFloat(n)
	case TypeBoolean:
		out, ok = v.(bool)
	default:
		var s string
		s, ok = renderScalar(t, v)
		out = s
	}
	if !ok {
		return unknownTypeValue(raw)
	}
	return out
}

// JSON has no representation for NaN and infinities.
func structuredFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return f
}
