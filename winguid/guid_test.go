package winguid

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGUID(t *testing.T) {
	// with curly brackets
	guid := "{45d8cccd-539f-4b72-a8b7-5c683142609a}"
	g, err := parse(guid)
	require.NoError(t, err)
	assert.NotEqual(t, GUID{}, g)
	assert.True(t, strings.EqualFold(guid, g.String()))

	guid = "54849625-5478-4994-a5ba-3e3b0328c30d"
	g, err = parse(guid)
	require.NoError(t, err)
	assert.NotEqual(t, GUID{}, g)
	assert.True(t, strings.EqualFold(fmt.Sprintf("{%s}", guid), g.String()))

	guid = "00000000-0000-0000-0000-000000000000"
	g, err = parse(guid)
	require.NoError(t, err)
	assert.Equal(t, GUID{}, g)
	assert.Equal(t, "{00000000-0000-0000-0000-000000000000}", g.String())
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-guid", "{45d8cccd-539f-4b72-a8b7}", "45d8cccd539f4b72a8b75c683142609a"} {
		_, err := parse(bad)
		assert.ErrorIs(t, err, ErrBadFormat, bad)
	}
	assert.Panics(t, func() { mustParse("nope") })
}

func TestGUIDGrouping(t *testing.T) {
	g := GUID{
		Data1: 0x00112233,
		Data2: 0x4455,
		Data3: 0x6677,
		Data4: [8]byte{0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
	}
	assert.Equal(t, "{00112233-4455-6677-8899-AABBCCDDEEFF}", g.String())
	assert.Equal(t, g, mustParse("00112233-4455-6677-8899-aabbccddeeff"))
}

func TestFromBytes(t *testing.T) {
	raw := []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	g, err := FromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "{00112233-4455-6677-8899-AABBCCDDEEFF}", g.String())

	_, err = FromBytes(raw[:15])
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestGUIDEquality(t *testing.T) {
	g1 := mustParse("{EDD08927-9CC4-4E65-B970-C2560FB5C289}")
	g2 := mustParse("{EDD08927-9CC4-4E65-B970-C2560FB5C289}")
	assert.Equal(t, g1, g2)

	g2.Data1++
	assert.NotEqual(t, g1, g2)

	for i := 0; i < 8; i++ {
		g2 = g1
		g2.Data4[i]++
		assert.NotEqual(t, g1, g2)
	}
}
