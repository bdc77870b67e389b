package permissions

import "errors"

// ErrRationaleDismissed is returned by RequestWithRationale when the user
// closes the rationale dialog without proceeding. The OS prompt is never
// shown in that case, so callers must treat this as a failed request, not
// a denied one.
var ErrRationaleDismissed = errors.New("permissions: rationale dialog dismissed")
