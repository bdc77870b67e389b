package platform

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-ferry/ferry/pkg/errors"
)

// Host is implemented by the embedding native shell (Kotlin/Swift).
//
// InvokeMethod forwards a method call to native code. It returns an error
// only when the call could not be handed off at all; otherwise the native
// side must settle the call exactly once by invoking its success callback
// (which calls CompleteCall) or its failure callback (which calls FailCall).
type Host interface {
	// InvokeMethod forwards a method call to the native side.
	InvokeMethod(channel, method string, callID int64, args []byte) error

	// StartEventStream tells native to start sending events for a channel.
	StartEventStream(channel string) error

	// StopEventStream tells native to stop sending events for a channel.
	StopEventStream(channel string) error
}

var (
	hostMu sync.RWMutex
	host   Host
)

// pendingCall represents a method call waiting for its native callback.
// The done channel is closed exactly once, when the call settles.
type pendingCall struct {
	done   chan struct{}
	result []byte
	err    error
}

var (
	pendingCalls   = make(map[int64]*pendingCall)
	pendingCallsMu sync.Mutex
	nextCallID     atomic.Int64
)

// SetHost attaches the native host implementation.
// Called by the embedding shell during initialization.
//
// After attaching, SetHost starts event streams for any event channels that
// acquired subscriptions before the host was available (e.g., during package
// init). Startup errors are dispatched to subscribers' error handlers.
func SetHost(h Host) {
	hostMu.Lock()
	host = h
	hostMu.Unlock()

	registry.mu.RLock()
	channels := make([]*EventChannel, 0, len(registry.eventChannels))
	for _, ch := range registry.eventChannels {
		channels = append(channels, ch)
	}
	registry.mu.RUnlock()

	for _, ch := range channels {
		ch.mu.Lock()
		shouldStart := len(ch.subscriptions) > 0 && !ch.started
		if shouldStart {
			ch.started = true
		}
		ch.mu.Unlock()

		if shouldStart {
			if err := startEventStream(ch.name); err != nil {
				ch.mu.Lock()
				ch.started = false
				ch.mu.Unlock()
				ch.dispatchError(err)
			}
		}
	}
}

// currentHost returns the attached native host, or nil.
func currentHost() Host {
	hostMu.RLock()
	defer hostMu.RUnlock()
	return host
}

// registerCall allocates a call ID and registers a pending call for it.
func registerCall() (int64, *pendingCall) {
	id := nextCallID.Add(1)
	call := &pendingCall{done: make(chan struct{})}
	pendingCallsMu.Lock()
	pendingCalls[id] = call
	pendingCallsMu.Unlock()
	return id, call
}

// takeCall removes and returns the pending call for the given ID.
// Returns nil if the call was already settled or abandoned, which
// guarantees that each call settles at most once.
func takeCall(callID int64) *pendingCall {
	pendingCallsMu.Lock()
	call := pendingCalls[callID]
	delete(pendingCalls, callID)
	pendingCallsMu.Unlock()
	return call
}

// CompleteCall settles a pending method call with a successful result.
// Called from the native success callback. Completions for calls that were
// abandoned (context expired) or already settled are dropped silently.
func CompleteCall(callID int64, result []byte) {
	call := takeCall(callID)
	if call == nil {
		return
	}
	call.result = result
	close(call.done)
}

// FailCall settles a pending method call with a native error.
// Called from the native failure callback.
func FailCall(callID int64, code, message string) {
	call := takeCall(callID)
	if call == nil {
		return
	}
	call.err = NewChannelError(code, message)
	close(call.done)
}

// startEventStream notifies native to start sending events.
func startEventStream(channel string) error {
	h := currentHost()
	if h == nil {
		errors.Report(&errors.FerryError{
			Op:      "platform.startEventStream",
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     ErrHostUnavailable,
		})
		return ErrHostUnavailable
	}
	if err := h.StartEventStream(channel); err != nil {
		errors.Report(&errors.FerryError{
			Op:      "platform.startEventStream",
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return err
	}
	return nil
}

// stopEventStream notifies native to stop sending events.
func stopEventStream(channel string) error {
	h := currentHost()
	if h == nil {
		return ErrHostUnavailable
	}
	if err := h.StopEventStream(channel); err != nil {
		errors.Report(&errors.FerryError{
			Op:      "platform.stopEventStream",
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return err
	}
	return nil
}

// ErrChannelNotRegistered is returned when an event arrives for an unregistered channel.
var ErrChannelNotRegistered = fmt.Errorf("event channel not registered")

// HandleEvent is called from the native shell when it pushes an event.
func HandleEvent(channel string, eventData []byte) error {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.FerryError{
			Op:      "platform.HandleEvent",
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	data, err := DefaultCodec.Decode(eventData)
	if err != nil {
		ch.dispatchError(err)
		return err
	}

	ch.dispatchEvent(data)
	return nil
}

// HandleEventError is called from the native shell when an event stream errors.
func HandleEventError(channel string, code, message string) error {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.FerryError{
			Op:      "platform.HandleEventError",
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	ch.dispatchError(NewChannelError(code, message))
	return nil
}

// HandleEventDone is called from the native shell when an event stream ends.
func HandleEventDone(channel string) error {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.FerryError{
			Op:      "platform.HandleEventDone",
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	ch.dispatchDone()
	return nil
}

// ResetForTest resets all global bridge state for test isolation.
// It detaches the host, drops pending calls, and removes all event
// subscriptions so the package behaves as if freshly initialized.
// This should only be called from tests.
func ResetForTest() {
	hostMu.Lock()
	host = nil
	hostMu.Unlock()

	pendingCallsMu.Lock()
	for id := range pendingCalls {
		delete(pendingCalls, id)
	}
	pendingCallsMu.Unlock()

	registry.mu.RLock()
	channels := make([]*EventChannel, 0, len(registry.eventChannels))
	for _, ch := range registry.eventChannels {
		channels = append(channels, ch)
	}
	registry.mu.RUnlock()

	for _, ch := range channels {
		ch.mu.Lock()
		ch.subscriptions = ch.subscriptions[:0]
		ch.started = false
		ch.mu.Unlock()
	}
}
