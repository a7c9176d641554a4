package variant

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSID = errors.New("invalid SID")

// SID holds the binary form of a security identifier.
// https://learn.microsoft.com/en-us/windows/win32/api/winnt/ns-winnt-sid
type SID []byte

const (
	sidRevision          = 1
	sidHeaderSize        = 8
	sidMaxSubAuthorities = 15
)

// Format returns the canonical S-R-I-S-S... string, as ConvertSidToStringSid does.
func (s SID) Format() (string, error) {
	if len(s) < sidHeaderSize {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidSID, len(s))
	}
	if s[0] != sidRevision {
		return "", fmt.Errorf("%w: revision %d", ErrInvalidSID, s[0])
	}
	count := int(s[1])
	if count > sidMaxSubAuthorities || len(s) != sidHeaderSize+4*count {
		return "", fmt.Errorf("%w: %d sub-authorities in %d bytes", ErrInvalidSID, count, len(s))
	}

	var authority uint64
	for _, b := range s[2:8] {
		authority = authority<<8 | uint64(b)
	}

	var sb strings.Builder
	sb.WriteString("S-1-")
	if authority >= 1<<32 {
		fmt.Fprintf(&sb, "0x%012X", authority)
	} else {
		sb.WriteString(strconv.FormatUint(authority, 10))
	}
	for i := 0; i < count; i++ {
		sb.WriteByte('-')
		sub := binary.LittleEndian.Uint32(s[sidHeaderSize+4*i:])
		sb.WriteString(strconv.FormatUint(uint64(sub), 10))
	}
	return sb.String(), nil
}
