//go:build windows

package winapi

import (
	"golang.org/x/sys/windows"
)

var (
	wevtapi = windows.NewLazySystemDLL("wevtapi.dll")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtclose
	evtClose = wevtapi.NewProc("EvtClose")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtquery
	evtQuery = wevtapi.NewProc("EvtQuery")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtnext
	evtNext = wevtapi.NewProc("EvtNext")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtcreaterendercontext
	evtCreateRenderContext = wevtapi.NewProc("EvtCreateRenderContext")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtrender
	evtRender = wevtapi.NewProc("EvtRender")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtsubscribe
	evtSubscribe = wevtapi.NewProc("EvtSubscribe")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtopensession
	evtOpenSession = wevtapi.NewProc("EvtOpenSession")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtopenchannelenum
	evtOpenChannelEnum = wevtapi.NewProc("EvtOpenChannelEnum")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtnextchannelpath
	evtNextChannelPath = wevtapi.NewProc("EvtNextChannelPath")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtopenpublisherenum
	evtOpenPublisherEnum = wevtapi.NewProc("EvtOpenPublisherEnum")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtnextpublisherid
	evtNextPublisherId = wevtapi.NewProc("EvtNextPublisherId")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtopenpublishermetadata
	evtOpenPublisherMetadata = wevtapi.NewProc("EvtOpenPublisherMetadata")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtopeneventmetadataenum
	evtOpenEventMetadataEnum = wevtapi.NewProc("EvtOpenEventMetadataEnum")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtnexteventmetadata
	evtNextEventMetadata = wevtapi.NewProc("EvtNextEventMetadata")

	// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nf-winevt-evtgeteventmetadataproperty
	evtGetEventMetadataProperty = wevtapi.NewProc("EvtGetEventMetadataProperty")
)
