package winapi

import (
	"syscall"
	"unsafe"
)

// wevtapi functions return a BOOL or a NULL handle on failure, the reason is
// in GetLastError, which Call returns as its third value.

func lastError(err error) error {
	if errno, ok := err.(syscall.Errno); ok && errno != ERROR_SUCCESS {
		return errno
	}
	return syscall.EINVAL
}

func EvtClose(handle EvtHandle) error {
	r1, _, err := evtClose.Call(uintptr(handle))
	if r1 == 0 {
		return lastError(err)
	}
	return nil
}

func EvtQuery(session EvtHandle, path *uint16, query *uint16, flags uint32) (EvtHandle, error) {
	r1, _, err := evtQuery.Call(
		uintptr(session),
		uintptr(unsafe.Pointer(path)),
		uintptr(unsafe.Pointer(query)),
		uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

// EvtNext fills events with up to len(events) handles. timeout is in
// milliseconds, INFINITE is 0xFFFFFFFF.
func EvtNext(resultSet EvtHandle, events []EvtHandle, timeout uint32, returned *uint32) error {
	if len(events) == 0 {
		return syscall.EINVAL
	}
	r1, _, err := evtNext.Call(
		uintptr(resultSet),
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		uintptr(timeout),
		0,
		uintptr(unsafe.Pointer(returned)))
	if r1 == 0 {
		return lastError(err)
	}
	return nil
}

func EvtCreateRenderContext(valuePathsCount uint32, valuePaths **uint16, flags uint32) (EvtHandle, error) {
	r1, _, err := evtCreateRenderContext.Call(
		uintptr(valuePathsCount),
		uintptr(unsafe.Pointer(valuePaths)),
		uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

func EvtRender(context EvtHandle, fragment EvtHandle, flags uint32, bufferSize uint32, buffer unsafe.Pointer, bufferUsed *uint32, propertyCount *uint32) error {
	r1, _, err := evtRender.Call(
		uintptr(context),
		uintptr(fragment),
		uintptr(flags),
		uintptr(bufferSize),
		uintptr(buffer),
		uintptr(unsafe.Pointer(bufferUsed)),
		uintptr(unsafe.Pointer(propertyCount)))
	if r1 == 0 {
		return lastError(err)
	}
	return nil
}

// EvtSubscribe registers callback, created with syscall.NewCallback, with the
// signature func(action uint32, userContext uintptr, event EvtHandle) uintptr.
func EvtSubscribe(session EvtHandle,
	signalEvent syscall.Handle,
	channelPath *uint16,
	query *uint16,
	bookmark EvtHandle,
	userContext uintptr,
	callback uintptr,
	flags uint32,
) (EvtHandle, error) {
	r1, _, err := evtSubscribe.Call(
		uintptr(session),
		uintptr(signalEvent),
		uintptr(unsafe.Pointer(channelPath)),
		uintptr(unsafe.Pointer(query)),
		uintptr(bookmark),
		userContext,
		callback,
		uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

func EvtOpenSession(loginClass uint32, login *EvtRpcLoginInfo, timeout uint32, flags uint32) (EvtHandle, error) {
	r1, _, err := evtOpenSession.Call(
		uintptr(loginClass),
		uintptr(unsafe.Pointer(login)),
		uintptr(timeout),
		uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

func EvtOpenChannelEnum(session EvtHandle, flags uint32) (EvtHandle, error) {
	r1, _, err := evtOpenChannelEnum.Call(uintptr(session), uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

// EvtNextChannelPath sizes are in characters.
func EvtNextChannelPath(channelEnum EvtHandle, bufferSize uint32, buffer *uint16, bufferUsed *uint32) error {
	r1, _, err := evtNextChannelPath.Call(
		uintptr(channelEnum),
		uintptr(bufferSize),
		uintptr(unsafe.Pointer(buffer)),
		uintptr(unsafe.Pointer(bufferUsed)))
	if r1 == 0 {
		return lastError(err)
	}
	return nil
}

func EvtOpenPublisherEnum(session EvtHandle, flags uint32) (EvtHandle, error) {
	r1, _, err := evtOpenPublisherEnum.Call(uintptr(session), uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

// EvtNextPublisherId sizes are in characters.
func EvtNextPublisherId(publisherEnum EvtHandle, bufferSize uint32, buffer *uint16, bufferUsed *uint32) error {
	r1, _, err := evtNextPublisherId.Call(
		uintptr(publisherEnum),
		uintptr(bufferSize),
		uintptr(unsafe.Pointer(buffer)),
		uintptr(unsafe.Pointer(bufferUsed)))
	if r1 == 0 {
		return lastError(err)
	}
	return nil
}

func EvtOpenPublisherMetadata(session EvtHandle, publisherId *uint16, logFilePath *uint16, locale uint32, flags uint32) (EvtHandle, error) {
	r1, _, err := evtOpenPublisherMetadata.Call(
		uintptr(session),
		uintptr(unsafe.Pointer(publisherId)),
		uintptr(unsafe.Pointer(logFilePath)),
		uintptr(locale),
		uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

func EvtOpenEventMetadataEnum(publisherMetadata EvtHandle, flags uint32) (EvtHandle, error) {
	r1, _, err := evtOpenEventMetadataEnum.Call(uintptr(publisherMetadata), uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

func EvtNextEventMetadata(eventMetadataEnum EvtHandle, flags uint32) (EvtHandle, error) {
	r1, _, err := evtNextEventMetadata.Call(uintptr(eventMetadataEnum), uintptr(flags))
	if r1 == 0 {
		return 0, lastError(err)
	}
	return EvtHandle(r1), nil
}

func EvtGetEventMetadataProperty(eventMetadata EvtHandle, propertyId uint32, flags uint32, bufferSize uint32, buffer unsafe.Pointer, bufferUsed *uint32) error {
	r1, _, err := evtGetEventMetadataProperty.Call(
		uintptr(eventMetadata),
		uintptr(propertyId),
		uintptr(flags),
		uintptr(bufferSize),
		uintptr(buffer),
		uintptr(unsafe.Pointer(bufferUsed)))
	if r1 == 0 {
		return lastError(err)
	}
	return nil
}
