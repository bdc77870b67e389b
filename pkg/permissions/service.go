package permissions

import (
	"context"
	"sync"

	"github.com/go-ferry/ferry/pkg/dialogs"
	"github.com/go-ferry/ferry/pkg/errors"
	"github.com/go-ferry/ferry/pkg/platform"
)

// channelName is the method channel the native permission handler listens on.
const channelName = "ferry/permissions"

// rationaleFailureNotice is the fixed text of the best-effort alert shown
// when the rationale dialog is dismissed or fails.
const rationaleFailureNotice = "Error Requesting Permissions"

// Service is the singleton runtime permission service.
var Service = &PermissionService{
	channel: platform.NewMethodChannel(channelName),
}

// PermissionService checks and requests Android runtime permissions through
// the native bridge. Identifiers are forwarded to the native layer
// unexamined; the catalog constants in this package cover the dangerous
// permissions, but any manifest string is accepted.
type PermissionService struct {
	channel *platform.MethodChannel

	// Serializes permission requests: only one OS prompt can show at a time.
	requestMu sync.Mutex
}

// Check reports whether the permission is currently granted.
// It never shows a prompt.
func (s *PermissionService) Check(ctx context.Context, permission string) (bool, error) {
	result, err := s.channel.Invoke(ctx, "check", map[string]any{
		"permission": permission,
	})
	if err != nil {
		return false, err
	}
	return parseGranted("permissions.check", result)
}

// Request prompts the user for the permission and blocks until they respond
// or ctx expires. Returns true if the user granted, false if they denied.
// A denial is a successful result, not an error; errors mean the native
// call itself failed.
func (s *PermissionService) Request(ctx context.Context, permission string) (bool, error) {
	s.requestMu.Lock()
	defer s.requestMu.Unlock()

	result, err := s.channel.Invoke(ctx, "request", map[string]any{
		"permission": permission,
	})
	if err != nil {
		return false, err
	}
	return parseGranted("permissions.request", result)
}

// ShouldShowRationale reports whether the app should explain why it needs
// the permission before requesting it. Android returns true after the user
// has denied the permission once without selecting "don't ask again".
func (s *PermissionService) ShouldShowRationale(ctx context.Context, permission string) (bool, error) {
	result, err := s.channel.Invoke(ctx, "shouldShowRationale", map[string]any{
		"permission": permission,
	})
	if err != nil {
		return false, err
	}
	if m := platform.ParseMap(result); m != nil {
		if shouldShow, ok := m["shouldShow"].(bool); ok {
			return shouldShow, nil
		}
	}
	return false, &errors.FerryError{
		Op:      "permissions.shouldShowRationale",
		Kind:    errors.KindParsing,
		Channel: channelName,
		Err: &errors.ParseError{
			Channel:  channelName,
			DataType: "RationaleResult",
			Got:      result,
		},
	}
}

// RequestWithRationale requests a permission, first showing an explanatory
// alert with the given title and message when the platform recommends one.
//
// The flow has two phases. Phase one queries ShouldShowRationale; if that
// fails, the whole call fails with its error and nothing else happens.
// When a rationale is recommended, the alert is shown and the request only
// proceeds if the user taps the affirmative button. Dismissing the alert
// aborts the flow with ErrRationaleDismissed: the OS prompt is never shown,
// so the outcome is a failure, not a denial. Phase two is a plain Request.
func (s *PermissionService) RequestWithRationale(ctx context.Context, permission, title, message string) (bool, error) {
	shouldShow, err := s.ShouldShowRationale(ctx, permission)
	if err != nil {
		return false, err
	}

	if shouldShow {
		action, err := dialogs.Alerts.Show(ctx, dialogs.AlertOptions{
			Title:   title,
			Message: message,
		})
		if err != nil {
			if ctx.Err() != nil {
				return false, err
			}
			s.notifyRationaleFailure(ctx, err)
			return false, ErrRationaleDismissed
		}
		if action != dialogs.AlertProceed {
			s.notifyRationaleFailure(ctx, nil)
			return false, ErrRationaleDismissed
		}
	}

	return s.Request(ctx, permission)
}

// IsGranted reports whether the permission is currently granted.
// Best-effort convenience: returns false on any error. Use Check for
// precise error handling when error details matter.
func (s *PermissionService) IsGranted(ctx context.Context, permission string) bool {
	granted, err := s.Check(ctx, permission)
	if err != nil {
		return false
	}
	return granted
}

// notifyRationaleFailure shows the fixed failure notice after the rationale
// dialog was dismissed or errored. The notice is purely informational: its
// own failure is reported and otherwise ignored.
func (s *PermissionService) notifyRationaleFailure(ctx context.Context, cause error) {
	if cause != nil {
		errors.Report(&errors.FerryError{
			Op:      "permissions.rationaleDialog",
			Kind:    errors.KindPlatform,
			Channel: "ferry/dialogs",
			Err:     cause,
		})
	}
	if _, err := dialogs.Alerts.Show(ctx, dialogs.AlertOptions{
		Message: rationaleFailureNotice,
	}); err != nil {
		errors.Report(&errors.FerryError{
			Op:      "permissions.rationaleNotice",
			Kind:    errors.KindPlatform,
			Channel: "ferry/dialogs",
			Err:     err,
		})
	}
}

func parseGranted(op string, result any) (bool, error) {
	if m := platform.ParseMap(result); m != nil {
		if granted, ok := m["granted"].(bool); ok {
			return granted, nil
		}
	}
	return false, &errors.FerryError{
		Op:      op,
		Kind:    errors.KindParsing,
		Channel: channelName,
		Err: &errors.ParseError{
			Channel:  channelName,
			DataType: "GrantResult",
			Got:      result,
		},
	}
}
