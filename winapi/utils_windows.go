package winapi

import (
	"errors"
	"syscall"
	"unsafe"
)

func Wcslen(uintf16 *uint16) (len uint64) {
	for it := uintptr(unsafe.Pointer(uintf16)); ; it += 2 {
		wc := (*uint16)(unsafe.Pointer(it))
		if *wc == 0 {
			return
		}
		len++
	}
}

// StringFiller is one of the wevtapi enumerators writing a NUL terminated
// string into a caller buffer, sized in characters.
type StringFiller func(size uint32, buffer *uint16, used *uint32) error

// FillString calls fill with a buffer grown until the string fits.
func FillString(fill StringFiller) (string, error) {
	buf := make([]uint16, 256)
	for {
		var used uint32
		err := fill(uint32(len(buf)), &buf[0], &used)
		if errors.Is(err, ERROR_INSUFFICIENT_BUFFER) && int(used) > len(buf) {
			buf = make([]uint16, used)
			continue
		}
		if err != nil {
			return "", err
		}
		return syscall.UTF16ToString(buf), nil
	}
}

// RenderBuffer calls render with a nil buffer to learn the size, then with a
// buffer of that size. It returns the buffer and the property count.
func RenderBuffer(render func(size uint32, buffer unsafe.Pointer, used *uint32, count *uint32) error) ([]byte, uint32, error) {
	var used, count uint32
	err := render(0, nil, &used, &count)
	if err == nil {
		return nil, count, nil
	}
	for errors.Is(err, ERROR_INSUFFICIENT_BUFFER) && used > 0 {
		// 8 byte aligned, values are EVT_VARIANT arrays
		buf := make([]byte, (used+7)&^7)
		err = render(uint32(len(buf)), unsafe.Pointer(&buf[0]), &used, &count)
		if err == nil {
			return buf[:used], count, nil
		}
	}
	return nil, 0, err
}
