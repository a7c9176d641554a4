package variant

import "fmt"

// Type is the tag of a Field. Values follow EVT_VARIANT_TYPE so a tag read from
// the host can be stored as is.
// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_variant_type
type Type uint8

const (
	TypeNull       Type = 0
	TypeString     Type = 1
	TypeAnsiString Type = 2
	TypeSByte      Type = 3
	TypeByte       Type = 4
	TypeInt16      Type = 5
	TypeUInt16     Type = 6
	TypeInt32      Type = 7
	TypeUInt32     Type = 8
	TypeInt64      Type = 9
	TypeUInt64     Type = 10
	TypeSingle     Type = 11
	TypeDouble     Type = 12
	TypeBoolean    Type = 13
	TypeBinary     Type = 14
	TypeGuid       Type = 15
	TypeSizeT      Type = 16
	TypeFileTime   Type = 17
	TypeSysTime    Type = 18
	TypeSid        Type = 19
	TypeHexInt32   Type = 20
	TypeHexInt64   Type = 21
	TypeEvtHandle  Type = 32
	TypeEvtXml     Type = 35
)

// ArrayFlag is EVT_VARIANT_TYPE_ARRAY, or'ed into the raw type of array fields.
const ArrayFlag = 128

// TypeMask strips ArrayFlag from a raw EVT_VARIANT type.
const TypeMask = 0x7f

var typeNames = map[Type]string{
	TypeNull:       "Null",
	TypeString:     "String",
	TypeAnsiString: "AnsiString",
	TypeSByte:      "SByte",
	TypeByte:       "Byte",
	TypeInt16:      "Int16",
	TypeUInt16:     "UInt16",
	TypeInt32:      "Int32",
	TypeUInt32:     "UInt32",
	TypeInt64:      "Int64",
	TypeUInt64:     "UInt64",
	TypeSingle:     "Single",
	TypeDouble:     "Double",
	TypeBoolean:    "Boolean",
	TypeBinary:     "Binary",
	TypeGuid:       "Guid",
	TypeSizeT:      "SizeT",
	TypeFileTime:   "FileTime",
	TypeSysTime:    "SysTime",
	TypeSid:        "Sid",
	TypeHexInt32:   "HexInt32",
	TypeHexInt64:   "HexInt64",
	TypeEvtHandle:  "EvtHandle",
	TypeEvtXml:     "EvtXml",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Renderable reports whether the renderers know how to format values of t.
// EvtHandle is a live host handle and has no textual form.
func (t Type) Renderable() bool {
	_, ok := typeNames[t]
	return ok && t != TypeEvtHandle
}
