package permissions

import (
	"sync"

	"github.com/go-ferry/ferry/pkg/errors"
	"github.com/go-ferry/ferry/pkg/platform"
)

// changesChannelName carries grant-state change events pushed by native,
// e.g. when the user revokes a permission from system settings.
const changesChannelName = "ferry/permissions/events"

var (
	changesOnce    sync.Once
	changesChannel *platform.EventChannel
)

func changes() *platform.EventChannel {
	changesOnce.Do(func() {
		changesChannel = platform.NewEventChannel(changesChannelName)
	})
	return changesChannel
}

// grantChange is a decoded grant-state change event.
type grantChange struct {
	Permission string
	Granted    bool
}

func parseGrantChange(data any) (grantChange, bool) {
	m := platform.ParseMap(data)
	if m == nil {
		return grantChange{}, false
	}
	permission := platform.ParseString(m["permission"])
	granted, ok := m["granted"].(bool)
	if permission == "" || !ok {
		return grantChange{}, false
	}
	return grantChange{Permission: permission, Granted: granted}, true
}

// Listen subscribes to grant-state changes for the given permission
// identifier. The handler receives the new granted state each time native
// reports a change. Returns an unsubscribe function.
func (s *PermissionService) Listen(permission string, handler func(granted bool)) (unsubscribe func()) {
	sub := changes().Listen(platform.EventHandler{
		OnEvent: func(data any) {
			change, ok := parseGrantChange(data)
			if !ok {
				errors.Report(&errors.FerryError{
					Op:      "permissions.parseChange",
					Kind:    errors.KindParsing,
					Channel: changesChannelName,
					Err: &errors.ParseError{
						Channel:  changesChannelName,
						DataType: "GrantChange",
						Got:      data,
					},
				})
				return
			}
			if change.Permission == permission {
				handler(change.Granted)
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.FerryError{
				Op:      "permissions.changeStream",
				Kind:    errors.KindPlatform,
				Channel: changesChannelName,
				Err:     err,
			})
		},
	})
	return sub.Cancel
}
