package variant

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// parseSID builds the binary form of a canonical string SID.
func parseSID(str string) (SID, error) {
	parts := strings.Split(str, "-")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "S") || parts[1] != "1" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSID, str)
	}
	subs := parts[3:]
	if len(subs) > sidMaxSubAuthorities {
		return nil, fmt.Errorf("%w: too many sub-authorities in %q", ErrInvalidSID, str)
	}

	var authority uint64
	var err error
	if strings.HasPrefix(parts[2], "0x") || strings.HasPrefix(parts[2], "0X") {
		authority, err = strconv.ParseUint(parts[2][2:], 16, 48)
	} else {
		authority, err = strconv.ParseUint(parts[2], 10, 32)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: authority of %q: %s", ErrInvalidSID, str, err)
	}

	sid := make(SID, sidHeaderSize+4*len(subs))
	sid[0] = sidRevision
	sid[1] = byte(len(subs))
	for i := 0; i < 6; i++ {
		sid[2+i] = byte(authority >> (40 - 8*i))
	}
	for i, sub := range subs {
		v, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: sub-authority of %q: %s", ErrInvalidSID, str, err)
		}
		binary.LittleEndian.PutUint32(sid[sidHeaderSize+4*i:], uint32(v))
	}
	return sid, nil
}
