package evtlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/quentin-nozomi/evtq/winapi"
)

// Callbacks created with syscall.NewCallback are never released, so a single
// one dispatches every subscription through its user context.
var (
	subscribeCallback = syscall.NewCallback(onSubscriptionEvent)
	subscriptions     sync.Map // uintptr -> *hostSubscription
	subscriptionIDs   atomic.Uintptr
)

// https://learn.microsoft.com/en-us/windows/win32/api/winevt/nc-winevt-evt_subscribe_callback
func onSubscriptionEvent(action uint32, userContext uintptr, event uintptr) uintptr {
	value, ok := subscriptions.Load(userContext)
	if !ok {
		return 0
	}
	sub := value.(*hostSubscription)

	switch action {
	case winapi.EvtSubscribeActionDeliver:
		// the handle belongs to the service and dies when we return
		sub.deliver(&hostEvent{handle: winapi.EvtHandle(event)})
	case winapi.EvtSubscribeActionError:
		sub.logger.Warn("subscription error",
			zap.String("channel", sub.channel),
			zap.Error(syscall.Errno(event)))
	}
	return 0
}

type hostSubscription struct {
	id      uintptr
	handle  winapi.EvtHandle
	channel string
	deliver func(RawEvent)
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

func (s *hostSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = winapi.EvtClose(s.handle)
		subscriptions.Delete(s.id)
	})
	return s.closeErr
}

type hostSubscriber struct {
	session winapi.EvtHandle
	logger  *zap.Logger
}

// NewHostSubscriber opens a session to the host named by creds, the local
// host when nil. The password is wiped before returning.
func NewHostSubscriber(creds *Credentials, logger *zap.Logger) (HostSubscriber, error) {
	session, err := openSession(creds)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &hostSubscriber{session: session, logger: logger}, nil
}

// Channels lists every channel path of the host.
// https://learn.microsoft.com/en-us/windows/win32/wes/getting-a-list-of-channels
func (h *hostSubscriber) Channels(ctx context.Context) ([]string, error) {
	channelEnum, err := winapi.EvtOpenChannelEnum(h.session, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerating channels: %w", err)
	}
	defer winapi.EvtClose(channelEnum)

	var channels []string
	for ctx.Err() == nil {
		channel, err := winapi.FillString(func(size uint32, buffer *uint16, used *uint32) error {
			return winapi.EvtNextChannelPath(channelEnum, size, buffer, used)
		})
		if errors.Is(err, winapi.ERROR_NO_MORE_ITEMS) {
			return channels, nil
		}
		if err != nil {
			return channels, fmt.Errorf("enumerating channels: %w", err)
		}
		channels = append(channels, channel)
	}
	return channels, ctx.Err()
}

// https://learn.microsoft.com/en-us/windows/win32/wes/subscribing-to-events
func (h *hostSubscriber) Subscribe(_ context.Context, channel string, mode SubscribeMode, deliver func(RawEvent)) (Subscription, error) {
	channelPtr, err := windows.UTF16PtrFromString(channel)
	if err != nil {
		return nil, err
	}

	flags := uint32(winapi.EvtSubscribeToFutureEvents | winapi.EvtSubscribeStrict)
	if mode == ExistingEvents {
		flags = winapi.EvtSubscribeStartAtOldestRecord | winapi.EvtSubscribeStrict
	}

	sub := &hostSubscription{
		id:      subscriptionIDs.Add(1),
		channel: channel,
		deliver: deliver,
		logger:  h.logger,
	}
	// registered before subscribing, deliveries may start right away
	subscriptions.Store(sub.id, sub)

	handle, err := winapi.EvtSubscribe(h.session, 0, channelPtr, nil, 0, sub.id, subscribeCallback, flags)
	if err != nil {
		subscriptions.Delete(sub.id)
		if errors.Is(err, winapi.ERROR_EVT_SUBSCRIPTION_TO_DIRECT_CHANNEL) {
			return nil, fmt.Errorf("%s: %w", channel, ErrDirectChannel)
		}
		return nil, fmt.Errorf("subscribing to %s: %w", channel, err)
	}
	sub.handle = handle
	return sub, nil
}

func (h *hostSubscriber) Close() error {
	if h.session == 0 {
		return nil
	}
	err := winapi.EvtClose(h.session)
	h.session = 0
	return err
}
