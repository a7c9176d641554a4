//go:build windows

package winapi

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_query_flags
const (
	EvtQueryChannelPath         = 0x1
	EvtQueryFilePath            = 0x2
	EvtQueryForwardDirection    = 0x100
	EvtQueryReverseDirection    = 0x200
	EvtQueryTolerateQueryErrors = 0x1000
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_render_context_flags
const (
	EvtRenderContextValues = 0
	EvtRenderContextSystem = 1
	EvtRenderContextUser   = 2
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_render_flags
const (
	EvtRenderEventValues = 0
	EvtRenderEventXml    = 1
	EvtRenderBookmark    = 2
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_subscribe_flags
const (
	EvtSubscribeToFutureEvents      = 1
	EvtSubscribeStartAtOldestRecord = 2
	EvtSubscribeStartAfterBookmark  = 3
	EvtSubscribeTolerateQueryErrors = 0x1000
	EvtSubscribeStrict              = 0x10000
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_subscribe_notify_action
const (
	EvtSubscribeActionError   = 0
	EvtSubscribeActionDeliver = 1
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_login_class
const (
	EvtRpcLogin = 1
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_rpc_login_flags
const (
	EvtRpcLoginAuthDefault   = 0
	EvtRpcLoginAuthNegotiate = 1
	EvtRpcLoginAuthKerberos  = 2
	EvtRpcLoginAuthNTLM      = 3
)

// Indices of the values rendered with an EvtRenderContextSystem context.
// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_system_property_id
const (
	EvtSystemProviderName = iota
	EvtSystemProviderGuid
	EvtSystemEventID
	EvtSystemQualifiers
	EvtSystemLevel
	EvtSystemTask
	EvtSystemOpcode
	EvtSystemKeywords
	EvtSystemTimeCreated
	EvtSystemEventRecordId
	EvtSystemActivityID
	EvtSystemRelatedActivityID
	EvtSystemProcessID
	EvtSystemThreadID
	EvtSystemChannel
	EvtSystemComputer
	EvtSystemUserID
	EvtSystemVersion
	EvtSystemPropertyIdEND
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/ne-winevt-evt_event_metadata_property_id
const (
	EventMetadataEventID        = 0
	EventMetadataEventVersion   = 1
	EventMetadataEventChannel   = 2
	EventMetadataEventLevel     = 3
	EventMetadataEventOpcode    = 4
	EventMetadataEventTask      = 5
	EventMetadataEventKeyword   = 6
	EventMetadataEventMessageID = 7
	EventMetadataEventTemplate  = 8
)

// EVT_VARIANT_TYPE_ARRAY and EVT_VARIANT_TYPE_MASK
const (
	EvtVariantTypeArray = 128
	EvtVariantTypeMask  = 0x7f
)

// Tags read directly from winapi. Everything else is decoded into variant types.
const (
	EvtVarTypeNull   = 0
	EvtVarTypeString = 1
	EvtVarTypeUInt32 = 8
)
