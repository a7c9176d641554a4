package winapi

import "syscall"

const (
	ERROR_SUCCESS                            = syscall.Errno(0)
	ERROR_INVALID_PARAMETER                  = syscall.Errno(87)
	ERROR_INSUFFICIENT_BUFFER                = syscall.Errno(122)
	ERROR_NO_MORE_ITEMS                      = syscall.Errno(259)
	ERROR_TIMEOUT                            = syscall.Errno(1460)
	ERROR_EVT_INVALID_CHANNEL_PATH           = syscall.Errno(15000)
	ERROR_EVT_INVALID_QUERY                  = syscall.Errno(15001)
	ERROR_EVT_PUBLISHER_METADATA_NOT_FOUND   = syscall.Errno(15002)
	ERROR_EVT_INVALID_EVENT_DATA             = syscall.Errno(15005)
	ERROR_EVT_CHANNEL_NOT_FOUND              = syscall.Errno(15007)
	ERROR_EVT_SUBSCRIPTION_TO_DIRECT_CHANNEL = syscall.Errno(15009)
)
