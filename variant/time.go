package variant

import (
	"errors"
	"fmt"
	"time"
)

const displayLayout = "2006-01-02 15:04:05.000"

var ErrInvalidFileTime = errors.New("invalid FILETIME")

// FileTime counts 100-nanosecond intervals since 1601-01-01 UTC.
// https://learn.microsoft.com/en-us/windows/win32/api/minwinbase/ns-minwinbase-filetime
type FileTime uint64

// seconds between 1601-01-01 and 1970-01-01
const fileTimeUnixOffset = 11644473600

const ticksPerSecond = 10_000_000

// FileTimeFromTime is the inverse of FileTime.Time for instants after 1601.
func FileTimeFromTime(t time.Time) FileTime {
	sec := t.Unix() + fileTimeUnixOffset
	return FileTime(uint64(sec)*ticksPerSecond + uint64(t.Nanosecond()/100))
}

// Time converts ft to UTC. Values with the high bit set are rejected, as
// FileTimeToSystemTime does.
func (ft FileTime) Time() (time.Time, error) {
	if int64(ft) < 0 {
		return time.Time{}, fmt.Errorf("%w: 0x%016X", ErrInvalidFileTime, uint64(ft))
	}
	sec := int64(uint64(ft)/ticksPerSecond) - fileTimeUnixOffset
	nsec := int64(uint64(ft)%ticksPerSecond) * 100
	return time.Unix(sec, nsec).UTC(), nil
}

// Format renders YYYY-MM-DD HH:MM:SS.mmm, milliseconds truncated.
func (ft FileTime) Format() (string, error) {
	t, err := ft.Time()
	if err != nil {
		return "", err
	}
	return t.Format(displayLayout), nil
}

// SystemTime mirrors the SYSTEMTIME structure, field for field.
// https://learn.microsoft.com/en-us/windows/win32/api/minwinbase/ns-minwinbase-systemtime
type SystemTime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

func SystemTimeFromTime(t time.Time) SystemTime {
	t = t.UTC()
	return SystemTime{
		Year:         uint16(t.Year()),
		Month:        uint16(t.Month()),
		DayOfWeek:    uint16(t.Weekday()),
		Day:          uint16(t.Day()),
		Hour:         uint16(t.Hour()),
		Minute:       uint16(t.Minute()),
		Second:       uint16(t.Second()),
		Milliseconds: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
}

func (st SystemTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
		st.Year, st.Month, st.Day, st.Hour, st.Minute, st.Second, st.Milliseconds)
}
