// Package variant models the typed values carried by event records and renders
// them as display strings or as structured (JSON-ready) values.
//
// A Field is immutable once built. Its tag decides how the payload is read; a
// payload that does not match its tag renders the same sentinel as an unknown
// tag, so rendering never fails.
package variant

import (
	"github.com/quentin-nozomi/evtq/winguid"
)

type Field struct {
	Type    Type
	IsArray bool

	elements []any
}

func scalar(t Type, v any) Field {
	return Field{Type: t, elements: []any{v}}
}

// New builds a scalar field from a tag and an untyped payload. It is meant for
// decoders that read the tag from the wire; the typed constructors below are
// preferred everywhere else.
func New(t Type, v any) Field {
	return scalar(t, v)
}

// Array builds an array field. Every element is rendered with the scalar rule of t.
func Array[T any](t Type, values []T) Field {
	f := Field{Type: t, IsArray: true, elements: make([]any, len(values))}
	for i, v := range values {
		f.elements[i] = v
	}
	return f
}

func Null() Field { return Field{Type: TypeNull} }
func String(v string) Field { return scalar(TypeString, v) }
func AnsiString(v string) Field { return scalar(TypeAnsiString, v) }
func Int8(v int8) Field { return scalar(TypeSByte, v) }
func Uint8(v uint8) Field { return scalar(TypeByte, v) }
func Int16(v int16) Field { return scalar(TypeInt16, v) }
func Uint16(v uint16) Field { return scalar(TypeUInt16, v) }
func Int32(v int32) Field { return scalar(TypeInt32, v) }
func Uint32(v uint32) Field { return scalar(TypeUInt32, v) }
func Int64(v int64) Field { return scalar(TypeInt64, v) }
func Uint64(v uint64) Field { return scalar(TypeUInt64, v) }
func Single(v float32) Field { return scalar(TypeSingle, v) }
func Double(v float64) Field { return scalar(TypeDouble, v) }
func Boolean(v bool) Field { return scalar(TypeBoolean, v) }
func Binary(v []byte) Field { return scalar(TypeBinary, v) }
func GUID(v winguid.GUID) Field { return scalar(TypeGuid, v) }
func SizeT(v uint64) Field { return scalar(TypeSizeT, v) }
func FileTimeValue(v FileTime) Field { return scalar(TypeFileTime, v) }
func SysTime(v SystemTime) Field { return scalar(TypeSysTime, v) }
func SIDValue(v SID) Field { return scalar(TypeSid, v) }
func HexInt32(v uint32) Field { return scalar(TypeHexInt32, v) }
func HexInt64(v uint64) Field { return scalar(TypeHexInt64, v) }
func XML(v string) Field { return scalar(TypeEvtXml, v) }

// Len is the number of elements: 1 for a scalar, 0 for Null, the array length otherwise.
func (f Field) Len() int {
	return len(f.elements)
}

// Element returns the i-th element of f as a scalar field.
func (f Field) Element(i int) Field {
	if i < 0 || i >= len(f.elements) {
		return Null()
	}
	return scalar(f.Type, f.elements[i])
}

// RawType is the EVT_VARIANT type number, with ArrayFlag set for arrays.
func (f Field) RawType() uint32 {
	if f.IsArray {
		return uint32(f.Type) | ArrayFlag
	}
	return uint32(f.Type)
}

// Value returns the payload of a scalar field.
func (f Field) Value() any {
	if f.IsArray || len(f.elements) == 0 {
		return nil
	}
	return f.elements[0]
}
