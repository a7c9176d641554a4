package evtlog

import (
	"context"
	"math"
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/quentin-nozomi/evtq/variant"
	"github.com/quentin-nozomi/evtq/winapi"
)

func pointerVariant(t uint32, count uint32, p unsafe.Pointer) *winapi.EvtVariant {
	v := &winapi.EvtVariant{Type: t, Count: count}
	*(*unsafe.Pointer)(unsafe.Pointer(&v.Value)) = p
	return v
}

func TestDecodeScalars(t *testing.T) {
	assert.Equal(t, "-5", variant.Render(decodeVariant(&winapi.EvtVariant{Type: uint32(variant.TypeInt32), Value: uint64(uint32(0xfffffffb))})))
	assert.Equal(t, "true", variant.Render(decodeVariant(&winapi.EvtVariant{Type: uint32(variant.TypeBoolean), Value: 1})))
	assert.Equal(t, "1.500000", variant.Render(decodeVariant(&winapi.EvtVariant{Type: uint32(variant.TypeDouble), Value: math.Float64bits(1.5)})))
	assert.Equal(t, "002A", variant.Render(decodeVariant(&winapi.EvtVariant{Type: uint32(variant.TypeHexInt32), Value: 42})))
	assert.Equal(t, "", variant.Render(decodeVariant(&winapi.EvtVariant{Type: uint32(variant.TypeNull)})))
	assert.Equal(t, "<type=40 ?>", variant.Render(decodeVariant(&winapi.EvtVariant{Type: 40})))

	s, err := windows.UTF16PtrFromString("Windows Update")
	require.NoError(t, err)
	assert.Equal(t, "Windows Update", variant.Render(decodeVariant(pointerVariant(uint32(variant.TypeString), 0, unsafe.Pointer(s)))))
	runtime.KeepAlive(s)

	guid := []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	assert.Equal(t, "{00112233-4455-6677-8899-AABBCCDDEEFF}", variant.Render(decodeVariant(pointerVariant(uint32(variant.TypeGuid), 0, unsafe.Pointer(&guid[0])))))

	sid, err := windows.StringToSid("S-1-5-18")
	require.NoError(t, err)
	assert.Equal(t, "S-1-5-18", variant.Render(decodeVariant(pointerVariant(uint32(variant.TypeSid), 0, unsafe.Pointer(sid)))))
}

func TestDecodeArrays(t *testing.T) {
	values := []uint16{7, 8, 9}
	f := decodeVariant(pointerVariant(uint32(variant.TypeUInt16)|winapi.EvtVariantTypeArray, 3, unsafe.Pointer(&values[0])))
	assert.True(t, f.IsArray)
	assert.Equal(t, "[7,8,9]", variant.Render(f))

	a, _ := windows.UTF16PtrFromString("a")
	b, _ := windows.UTF16PtrFromString("b")
	strs := []*uint16{a, b}
	f = decodeVariant(pointerVariant(uint32(variant.TypeString)|winapi.EvtVariantTypeArray, 2, unsafe.Pointer(&strs[0])))
	assert.Equal(t, "[a,b]", variant.Render(f))
	runtime.KeepAlive(strs)

	f = decodeVariant(pointerVariant(uint32(variant.TypeInt64)|winapi.EvtVariantTypeArray, 0, nil))
	assert.Equal(t, "[]", variant.Render(f))
}

func TestHostChannels(t *testing.T) {
	sub, err := NewHostSubscriber(nil, zap.NewNop())
	require.NoError(t, err)
	defer sub.Close()

	channels, err := sub.Channels(context.Background())
	require.NoError(t, err)
	assert.Contains(t, channels, "Application")
}

func TestPublisherEnumerator(t *testing.T) {
	enum, err := NewPublisherEnumerator()
	require.NoError(t, err)

	providers, err := enum.Providers(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, providers)
}
