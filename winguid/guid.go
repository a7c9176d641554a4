package winguid

import (
	"encoding/binary"
	"fmt"
)

// https://learn.microsoft.com/en-us/windows/win32/api/guiddef/ns-guiddef-guid
// Same memory layout as windows.GUID, so a *GUID can be read straight out of an EVT_VARIANT.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

const Size = 16

var ErrBadFormat = fmt.Errorf("bad GUID format")

// FromBytes decodes the 16-byte in-memory representation (little-endian Data1..Data3).
func FromBytes(b []byte) (GUID, error) {
	if len(b) != Size {
		return GUID{}, fmt.Errorf("%w: %d bytes", ErrBadFormat, len(b))
	}
	g := GUID{
		Data1: binary.LittleEndian.Uint32(b[0:4]),
		Data2: binary.LittleEndian.Uint16(b[4:6]),
		Data3: binary.LittleEndian.Uint16(b[6:8]),
	}
	copy(g.Data4[:], b[8:16])
	return g, nil
}

func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g.Data1,
		g.Data2,
		g.Data3,
		g.Data4[0], g.Data4[1],
		g.Data4[2], g.Data4[3], g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7],
	)
}
