package winguid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

func mustParse(sguid string) GUID {
	guid, err := parse(sguid)
	if err != nil {
		panic(err)
	}
	return guid
}

var guidRegex = regexp.MustCompile(`^\{?[A-F0-9]{8}-[A-F0-9]{4}-[A-F0-9]{4}-[A-F0-9]{4}-[A-F0-9]{12}}?$`)

// parse reads the registry form of a GUID, braces optional.
func parse(guid string) (GUID, error) {
	outGuid := GUID{}
	var err error

	guid = strings.ToUpper(guid)
	if !guidRegex.MatchString(guid) {
		return outGuid, fmt.Errorf("%w: %q", ErrBadFormat, guid)
	}

	digitsGroups := strings.Split(strings.Trim(guid, "{}"), "-")

	var dataGroup uint64
	if dataGroup, err = strconv.ParseUint(digitsGroups[0], 16, 32); err != nil {
		return outGuid, err
	}
	outGuid.Data1 = uint32(dataGroup)

	if dataGroup, err = strconv.ParseUint(digitsGroups[1], 16, 16); err != nil {
		return outGuid, err
	}
	outGuid.Data2 = uint16(dataGroup)

	if dataGroup, err = strconv.ParseUint(digitsGroups[2], 16, 16); err != nil {
		return outGuid, err
	}
	outGuid.Data3 = uint16(dataGroup)

	if dataGroup, err = strconv.ParseUint(digitsGroups[3], 16, 16); err != nil {
		return outGuid, err
	}
	outGuid.Data4[0] = uint8(dataGroup >> 8)
	outGuid.Data4[1] = uint8(dataGroup & 0xff)

	if dataGroup, err = strconv.ParseUint(digitsGroups[4], 16, 64); err != nil {
		return outGuid, err
	}
	for i := 0; i < 6; i++ {
		outGuid.Data4[2+i] = uint8(dataGroup >> (40 - 8*i))
	}

	return outGuid, nil
}
