package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// EvtHandle is an EVT_HANDLE. The zero value is the local session.
type EvtHandle uintptr

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ns-winevt-evt_variant
type EvtVariant struct {
	Value uint64 // union
	Count uint32
	Type  uint32
}

// EvtVariantSize is sizeof(EVT_VARIANT), the stride of rendered value arrays.
const EvtVariantSize = unsafe.Sizeof(EvtVariant{})

func (v *EvtVariant) BaseType() uint32 {
	return v.Type & EvtVariantTypeMask
}

func (v *EvtVariant) IsArray() bool {
	return v.Type&EvtVariantTypeArray != 0
}

// Pointer reads the union as a pointer, for string, binary, SID, GUID,
// SYSTEMTIME and array members.
func (v *EvtVariant) Pointer() unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&v.Value))
}

func (v *EvtVariant) StringVal() string {
	p := v.Pointer()
	if p == nil {
		return ""
	}
	return windows.UTF16PtrToString((*uint16)(p))
}

func (v *EvtVariant) AnsiStringVal() string {
	p := v.Pointer()
	if p == nil {
		return ""
	}
	return windows.BytePtrToString((*byte)(p))
}

func (v *EvtVariant) Uint32Val() uint32 {
	return uint32(v.Value)
}

// EvtVariantAt returns the i-th variant of a rendered value array.
func EvtVariantAt(base unsafe.Pointer, i int) *EvtVariant {
	return (*EvtVariant)(unsafe.Add(base, uintptr(i)*EvtVariantSize))
}

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ns-winevt-evt_rpc_login
type EvtRpcLoginInfo struct {
	Server   *uint16
	User     *uint16
	Domain   *uint16
	Password *uint16
	Flags    uint32
}
