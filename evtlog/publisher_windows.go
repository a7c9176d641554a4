package evtlog

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/quentin-nozomi/evtq/metadata"
	"github.com/quentin-nozomi/evtq/winapi"
)

// publisherEnumerator reads provider templates from the local publisher
// metadata store.
// https://learn.microsoft.com/en-us/windows/win32/wes/getting-a-provider-s-metadata-
type publisherEnumerator struct{}

func NewPublisherEnumerator() (metadata.ProviderEnumerator, error) {
	return publisherEnumerator{}, nil
}

func (publisherEnumerator) Providers(ctx context.Context) ([]string, error) {
	publisherEnum, err := winapi.EvtOpenPublisherEnum(0, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerating publishers: %w", err)
	}
	defer winapi.EvtClose(publisherEnum)

	var publishers []string
	for ctx.Err() == nil {
		publisher, err := winapi.FillString(func(size uint32, buffer *uint16, used *uint32) error {
			return winapi.EvtNextPublisherId(publisherEnum, size, buffer, used)
		})
		if errors.Is(err, winapi.ERROR_NO_MORE_ITEMS) {
			return publishers, nil
		}
		if err != nil {
			return publishers, fmt.Errorf("enumerating publishers: %w", err)
		}
		publishers = append(publishers, publisher)
	}
	return publishers, ctx.Err()
}

func (publisherEnumerator) Events(ctx context.Context, provider string) ([]metadata.EventMetadata, error) {
	providerPtr, err := windows.UTF16PtrFromString(provider)
	if err != nil {
		return nil, err
	}
	publisher, err := winapi.EvtOpenPublisherMetadata(0, providerPtr, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("opening publisher metadata: %w", err)
	}
	defer winapi.EvtClose(publisher)

	eventEnum, err := winapi.EvtOpenEventMetadataEnum(publisher, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerating events: %w", err)
	}
	defer winapi.EvtClose(eventEnum)

	var events []metadata.EventMetadata
	for ctx.Err() == nil {
		event, err := winapi.EvtNextEventMetadata(eventEnum, 0)
		if errors.Is(err, winapi.ERROR_NO_MORE_ITEMS) {
			return events, nil
		}
		if err != nil {
			return events, fmt.Errorf("enumerating events: %w", err)
		}
		events = append(events, readEventMetadata(event))
		winapi.EvtClose(event)
	}
	return events, ctx.Err()
}

func readEventMetadata(event winapi.EvtHandle) metadata.EventMetadata {
	var m metadata.EventMetadata
	var err error
	if m.EventID, err = eventMetadataUint32(event, winapi.EventMetadataEventID); err != nil {
		m.Err = fmt.Errorf("event id: %w", err)
		return m
	}
	if m.Version, err = eventMetadataUint32(event, winapi.EventMetadataEventVersion); err != nil {
		m.Err = fmt.Errorf("event %d version: %w", m.EventID, err)
		return m
	}
	if m.Template, err = eventMetadataString(event, winapi.EventMetadataEventTemplate); err != nil {
		m.Err = fmt.Errorf("event %d template: %w", m.EventID, err)
	}
	return m
}

func eventMetadataProperty(event winapi.EvtHandle, property uint32, fn func(v *winapi.EvtVariant)) error {
	buf, _, err := winapi.RenderBuffer(func(size uint32, buffer unsafe.Pointer, used *uint32, _ *uint32) error {
		return winapi.EvtGetEventMetadataProperty(event, property, 0, size, buffer, used)
	})
	if err != nil {
		return err
	}
	if len(buf) < int(winapi.EvtVariantSize) {
		return fmt.Errorf("%d bytes property", len(buf))
	}
	fn((*winapi.EvtVariant)(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	return nil
}

func eventMetadataUint32(event winapi.EvtHandle, property uint32) (uint32, error) {
	var value uint32
	err := eventMetadataProperty(event, property, func(v *winapi.EvtVariant) {
		value = v.Uint32Val()
	})
	return value, err
}

func eventMetadataString(event winapi.EvtHandle, property uint32) (string, error) {
	var value string
	err := eventMetadataProperty(event, property, func(v *winapi.EvtVariant) {
		if v.Type == winapi.EvtVarTypeString {
			value = v.StringVal()
		}
	})
	return value, err
}
