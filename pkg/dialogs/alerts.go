// Package dialogs provides access to native alert dialogs.
package dialogs

import (
	"context"

	"github.com/go-ferry/ferry/pkg/errors"
	"github.com/go-ferry/ferry/pkg/platform"
)

// Alerts is the singleton alert dialog service.
var Alerts = &AlertService{
	channel: platform.NewMethodChannel("ferry/dialogs"),
}

// AlertAction identifies how the user closed an alert.
type AlertAction string

const (
	// AlertProceed indicates the user tapped the affirmative button.
	AlertProceed AlertAction = "proceed"

	// AlertDismissed indicates the user dismissed the alert without
	// proceeding (cancel button, back gesture, or tap outside).
	AlertDismissed AlertAction = "dismiss"
)

// AlertOptions configures a native alert dialog.
type AlertOptions struct {
	// Title is the dialog heading. Optional.
	Title string
	// Message is the dialog body text.
	Message string
	// ProceedLabel is the affirmative button label. Native falls back to a
	// platform default ("OK") when empty.
	ProceedLabel string
	// DismissLabel is the cancel button label. When empty, the dialog shows
	// only the affirmative button and dismissal happens via the back
	// gesture or a tap outside.
	DismissLabel string
}

// AlertService manages native alert dialogs.
type AlertService struct {
	channel *platform.MethodChannel
}

// Show displays a native alert and blocks until the user closes it or ctx
// expires. The returned action reports whether the user proceeded or
// dismissed; an error means the dialog could not be shown or the native
// side failed.
func (s *AlertService) Show(ctx context.Context, opts AlertOptions) (AlertAction, error) {
	result, err := s.channel.Invoke(ctx, "showAlert", map[string]any{
		"title":        opts.Title,
		"message":      opts.Message,
		"proceedLabel": opts.ProceedLabel,
		"dismissLabel": opts.DismissLabel,
	})
	if err != nil {
		return "", err
	}
	return parseAlertAction(result)
}

func parseAlertAction(result any) (AlertAction, error) {
	if m := platform.ParseMap(result); m != nil {
		switch action := AlertAction(platform.ParseString(m["action"])); action {
		case AlertProceed, AlertDismissed:
			return action, nil
		}
	}
	return "", &errors.FerryError{
		Op:      "dialogs.showAlert",
		Kind:    errors.KindParsing,
		Channel: "ferry/dialogs",
		Err: &errors.ParseError{
			Channel:  "ferry/dialogs",
			DataType: "AlertAction",
			Got:      result,
		},
	}
}
