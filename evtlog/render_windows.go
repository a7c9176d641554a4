package evtlog

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"golang.org/x/exp/slices"
	"golang.org/x/sys/windows"

	"github.com/quentin-nozomi/evtq/variant"
	"github.com/quentin-nozomi/evtq/winapi"
	"github.com/quentin-nozomi/evtq/winguid"
)

// https://learn.microsoft.com/en-us/windows/win32/wes/rendering-events

// hostEvent is an event handle, valid until closed or, for subscription
// deliveries, until the callback returns.
type hostEvent struct {
	handle winapi.EvtHandle
	owned  bool
}

func (e *hostEvent) Close() error {
	if !e.owned || e.handle == 0 {
		return nil
	}
	err := winapi.EvtClose(e.handle)
	e.handle = 0
	return err
}

// renderValues renders the values of a system or user context, and calls fn
// with the EVT_VARIANT array while the buffer is alive.
func (e *hostEvent) renderValues(contextFlags uint32, fn func(values []*winapi.EvtVariant) error) error {
	renderContext, err := winapi.EvtCreateRenderContext(0, nil, contextFlags)
	if err != nil {
		return fmt.Errorf("creating render context: %w", err)
	}
	defer winapi.EvtClose(renderContext)

	buf, count, err := winapi.RenderBuffer(func(size uint32, buffer unsafe.Pointer, used *uint32, count *uint32) error {
		return winapi.EvtRender(renderContext, e.handle, winapi.EvtRenderEventValues, size, buffer, used, count)
	})
	if err != nil {
		return fmt.Errorf("rendering values: %w", err)
	}
	if count == 0 || len(buf) == 0 {
		return fn(nil)
	}

	base := unsafe.Pointer(&buf[0])
	values := make([]*winapi.EvtVariant, count)
	for i := range values {
		values[i] = winapi.EvtVariantAt(base, i)
	}
	err = fn(values)
	runtime.KeepAlive(buf)
	return err
}

func (e *hostEvent) System() (SystemProperties, error) {
	var sys SystemProperties
	err := e.renderValues(winapi.EvtRenderContextSystem, func(values []*winapi.EvtVariant) error {
		if len(values) < winapi.EvtSystemPropertyIdEND {
			return fmt.Errorf("%d system properties rendered", len(values))
		}
		sys = SystemProperties{
			Host:        stringProperty(values[winapi.EvtSystemComputer]),
			RecordID:    numericProperty(values[winapi.EvtSystemEventRecordId]),
			TimeCreated: variant.FileTime(numericProperty(values[winapi.EvtSystemTimeCreated])),
			Provider:    stringProperty(values[winapi.EvtSystemProviderName]),
			EventID:     uint16(numericProperty(values[winapi.EvtSystemEventID])),
			Version:     uint8(numericProperty(values[winapi.EvtSystemVersion])),
			Channel:     stringProperty(values[winapi.EvtSystemChannel]),
		}
		return nil
	})
	return sys, err
}

func (e *hostEvent) UserFields() ([]variant.Field, error) {
	var fields []variant.Field
	err := e.renderValues(winapi.EvtRenderContextUser, func(values []*winapi.EvtVariant) error {
		fields = make([]variant.Field, len(values))
		for i, v := range values {
			fields[i] = decodeVariant(v)
		}
		return nil
	})
	return fields, err
}

func (e *hostEvent) XML() (string, error) {
	buf, _, err := winapi.RenderBuffer(func(size uint32, buffer unsafe.Pointer, used *uint32, count *uint32) error {
		return winapi.EvtRender(0, e.handle, winapi.EvtRenderEventXml, size, buffer, used, count)
	})
	if err != nil {
		return "", fmt.Errorf("rendering xml: %w", err)
	}
	if len(buf) < 2 {
		return "", nil
	}
	return windows.UTF16ToString(unsafe.Slice((*uint16)(unsafe.Pointer(&buf[0])), len(buf)/2)), nil
}

// system properties absent from an event are rendered as EvtVarTypeNull
func stringProperty(v *winapi.EvtVariant) string {
	if v.Type != winapi.EvtVarTypeString {
		return ""
	}
	return v.StringVal()
}

func numericProperty(v *winapi.EvtVariant) uint64 {
	if v.Type == winapi.EvtVarTypeNull {
		return 0
	}
	return v.Value
}

func arrayOf[T any](p unsafe.Pointer, n uint32) []T {
	if p == nil || n == 0 {
		return []T{}
	}
	return slices.Clone(unsafe.Slice((*T)(p), n))
}

func convert[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func copySID(p unsafe.Pointer) variant.SID {
	if p == nil {
		return nil
	}
	sid := (*windows.SID)(p)
	if !sid.IsValid() {
		return nil
	}
	n := windows.GetLengthSid(sid)
	return slices.Clone(unsafe.Slice((*byte)(p), n))
}

func guidAt(p unsafe.Pointer) winguid.GUID {
	g, _ := winguid.FromBytes(unsafe.Slice((*byte)(p), winguid.Size))
	return g
}

func utf16String(p *uint16) string {
	if p == nil {
		return ""
	}
	return windows.UTF16PtrToString(p)
}

func ansiString(p *byte) string {
	if p == nil {
		return ""
	}
	return windows.BytePtrToString(p)
}

// decodeVariant copies one EVT_VARIANT out of the render buffer.
// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ns-winevt-evt_variant
func decodeVariant(v *winapi.EvtVariant) variant.Field {
	t := variant.Type(v.BaseType())
	if v.IsArray() {
		return decodeArray(t, v)
	}

	p := v.Pointer()
	switch t {
	case variant.TypeNull:
		return variant.Null()
	case variant.TypeString:
		return variant.String(v.StringVal())
	case variant.TypeAnsiString:
		return variant.AnsiString(v.AnsiStringVal())
	case variant.TypeSByte:
		return variant.Int8(int8(v.Value))
	case variant.TypeByte:
		return variant.Uint8(uint8(v.Value))
	case variant.TypeInt16:
		return variant.Int16(int16(v.Value))
	case variant.TypeUInt16:
		return variant.Uint16(uint16(v.Value))
	case variant.TypeInt32:
		return variant.Int32(int32(v.Value))
	case variant.TypeUInt32:
		return variant.Uint32(uint32(v.Value))
	case variant.TypeInt64:
		return variant.Int64(int64(v.Value))
	case variant.TypeUInt64:
		return variant.Uint64(v.Value)
	case variant.TypeSingle:
		return variant.Single(math.Float32frombits(uint32(v.Value)))
	case variant.TypeDouble:
		return variant.Double(math.Float64frombits(v.Value))
	case variant.TypeBoolean:
		return variant.Boolean(uint32(v.Value) != 0)
	case variant.TypeBinary:
		// Count holds the byte length of binary values
		return variant.Binary(arrayOf[byte](p, v.Count))
	case variant.TypeGuid:
		if p == nil {
			return variant.Null()
		}
		return variant.GUID(guidAt(p))
	case variant.TypeSizeT:
		return variant.SizeT(uint64(*(*uintptr)(unsafe.Pointer(&v.Value))))
	case variant.TypeFileTime:
		return variant.FileTimeValue(variant.FileTime(v.Value))
	case variant.TypeSysTime:
		if p == nil {
			return variant.Null()
		}
		return variant.SysTime(*(*variant.SystemTime)(p))
	case variant.TypeSid:
		return variant.SIDValue(copySID(p))
	case variant.TypeHexInt32:
		return variant.HexInt32(uint32(v.Value))
	case variant.TypeHexInt64:
		return variant.HexInt64(v.Value)
	case variant.TypeEvtXml:
		return variant.XML(v.StringVal())
	}
	// EvtHandle and unknown tags keep their tag and render as a sentinel
	return variant.New(t, v.Value)
}

func decodeArray(t variant.Type, v *winapi.EvtVariant) variant.Field {
	p, n := v.Pointer(), v.Count
	switch t {
	case variant.TypeString:
		return variant.Array(t, convert(arrayOf[*uint16](p, n), utf16String))
	case variant.TypeAnsiString:
		return variant.Array(t, convert(arrayOf[*byte](p, n), ansiString))
	case variant.TypeSByte:
		return variant.Array(t, arrayOf[int8](p, n))
	case variant.TypeByte:
		return variant.Array(t, arrayOf[uint8](p, n))
	case variant.TypeInt16:
		return variant.Array(t, arrayOf[int16](p, n))
	case variant.TypeUInt16:
		return variant.Array(t, arrayOf[uint16](p, n))
	case variant.TypeInt32:
		return variant.Array(t, arrayOf[int32](p, n))
	case variant.TypeUInt32, variant.TypeHexInt32:
		return variant.Array(t, arrayOf[uint32](p, n))
	case variant.TypeInt64:
		return variant.Array(t, arrayOf[int64](p, n))
	case variant.TypeUInt64, variant.TypeHexInt64:
		return variant.Array(t, arrayOf[uint64](p, n))
	case variant.TypeSingle:
		return variant.Array(t, arrayOf[float32](p, n))
	case variant.TypeDouble:
		return variant.Array(t, arrayOf[float64](p, n))
	case variant.TypeBoolean:
		return variant.Array(t, convert(arrayOf[int32](p, n), func(b int32) bool { return b != 0 }))
	case variant.TypeGuid:
		return variant.Array(t, convert(arrayOf[[winguid.Size]byte](p, n), func(b [winguid.Size]byte) winguid.GUID {
			g, _ := winguid.FromBytes(b[:])
			return g
		}))
	case variant.TypeSizeT:
		return variant.Array(t, convert(arrayOf[uintptr](p, n), func(u uintptr) uint64 { return uint64(u) }))
	case variant.TypeFileTime:
		return variant.Array(t, convert(arrayOf[uint64](p, n), func(u uint64) variant.FileTime { return variant.FileTime(u) }))
	case variant.TypeSysTime:
		return variant.Array(t, arrayOf[variant.SystemTime](p, n))
	case variant.TypeSid:
		return variant.Array(t, convert(arrayOf[unsafe.Pointer](p, n), copySID))
	}
	return variant.Array(t, make([]any, n))
}
