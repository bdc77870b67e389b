package permissions

import (
	"context"
	"errors"
	"sync"
	"testing"

	ferrors "github.com/go-ferry/ferry/pkg/errors"
	"github.com/go-ferry/ferry/pkg/platform"
)

// permissionHost fakes the native permission and dialog handlers.
// Alert responses are consumed in order, one per showAlert call.
type permissionHost struct {
	checkResp     any
	requestResp   any
	rationaleResp any
	alertResps    []any

	// failMethod makes that method fail with failCode.
	failMethod string
	failCode   string

	mu        sync.Mutex
	calls     []string
	alertArgs []map[string]any
}

func (h *permissionHost) InvokeMethod(channel, method string, callID int64, args []byte) error {
	h.mu.Lock()
	h.calls = append(h.calls, method)

	var resp any
	switch method {
	case "check":
		resp = h.checkResp
	case "request":
		resp = h.requestResp
	case "shouldShowRationale":
		resp = h.rationaleResp
	case "showAlert":
		decoded, _ := platform.DefaultCodec.Decode(args)
		h.alertArgs = append(h.alertArgs, platform.ParseMap(decoded))
		if len(h.alertResps) > 0 {
			resp = h.alertResps[0]
			h.alertResps = h.alertResps[1:]
		}
	}
	h.mu.Unlock()

	if method == h.failMethod {
		platform.FailCall(callID, h.failCode, "native failure")
		return nil
	}

	data, err := platform.DefaultCodec.Encode(resp)
	if err != nil {
		return err
	}
	platform.CompleteCall(callID, data)
	return nil
}

func (h *permissionHost) StartEventStream(string) error { return nil }
func (h *permissionHost) StopEventStream(string) error  { return nil }

func (h *permissionHost) methodCalls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func granted(v bool) map[string]any       { return map[string]any{"granted": v} }
func rationale(v bool) map[string]any     { return map[string]any{"shouldShow": v} }
func alertAction(a string) map[string]any { return map[string]any{"action": a} }

func TestServiceInitialization(t *testing.T) {
	if Service == nil {
		t.Fatal("Service is nil")
	}
	if Service.channel.Name() != "ferry/permissions" {
		t.Errorf("expected channel name %q, got %q", "ferry/permissions", Service.channel.Name())
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		response  any
		wantBool  bool
		wantError bool
	}{
		{
			name:     "granted",
			response: granted(true),
			wantBool: true,
		},
		{
			name:     "not granted",
			response: granted(false),
			wantBool: false,
		},
		{
			name:      "nil response",
			response:  nil,
			wantError: true,
		},
		{
			name:      "missing granted key",
			response:  map[string]any{"other": "value"},
			wantError: true,
		},
		{
			name:      "wrong type for granted",
			response:  map[string]any{"granted": "yes"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform.SetHost(&permissionHost{checkResp: tt.response})
			t.Cleanup(platform.ResetForTest)

			result, err := Service.Check(context.Background(), Camera)

			if tt.wantError {
				if err == nil {
					t.Errorf("expected error, got result=%v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.wantBool {
				t.Errorf("expected %v, got %v", tt.wantBool, result)
			}
		})
	}
}

func TestCheckNativeError(t *testing.T) {
	platform.SetHost(&permissionHost{failMethod: "check", failCode: "E_CHECK"})
	t.Cleanup(platform.ResetForTest)

	_, err := Service.Check(context.Background(), Camera)
	var channelErr *platform.ChannelError
	if !errors.As(err, &channelErr) {
		t.Fatalf("expected ChannelError, got %v", err)
	}
	if channelErr.Code != "E_CHECK" {
		t.Errorf("Code = %q, want %q", channelErr.Code, "E_CHECK")
	}
}

func TestRequestDeniedIsNotError(t *testing.T) {
	platform.SetHost(&permissionHost{requestResp: granted(false)})
	t.Cleanup(platform.ResetForTest)

	result, err := Service.Request(context.Background(), ReadContacts)
	if err != nil {
		t.Fatalf("a denial must not be an error, got %v", err)
	}
	if result {
		t.Error("expected false for a denied request")
	}
}

func TestRequestGranted(t *testing.T) {
	host := &permissionHost{requestResp: granted(true)}
	platform.SetHost(host)
	t.Cleanup(platform.ResetForTest)

	result, err := Service.Request(context.Background(), ReadContacts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result {
		t.Error("expected true for a granted request")
	}
	if calls := host.methodCalls(); len(calls) != 1 || calls[0] != "request" {
		t.Errorf("unexpected native calls: %v", calls)
	}
}

func TestShouldShowRationale(t *testing.T) {
	platform.SetHost(&permissionHost{rationaleResp: rationale(true)})
	t.Cleanup(platform.ResetForTest)

	shouldShow, err := Service.ShouldShowRationale(context.Background(), Camera)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shouldShow {
		t.Error("expected true")
	}
}

func TestRequestWithRationaleSkipsDialog(t *testing.T) {
	// shouldShow=false goes straight to the request, no dialog.
	host := &permissionHost{
		rationaleResp: rationale(false),
		requestResp:   granted(true),
	}
	platform.SetHost(host)
	t.Cleanup(platform.ResetForTest)

	result, err := Service.RequestWithRationale(context.Background(), Camera, "T", "M")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result {
		t.Error("expected granted result")
	}

	calls := host.methodCalls()
	want := []string{"shouldShowRationale", "request"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("native calls = %v, want %v", calls, want)
	}
}

func TestRequestWithRationaleProceed(t *testing.T) {
	host := &permissionHost{
		rationaleResp: rationale(true),
		alertResps:    []any{alertAction("proceed")},
		requestResp:   granted(true),
	}
	platform.SetHost(host)
	t.Cleanup(platform.ResetForTest)

	result, err := Service.RequestWithRationale(context.Background(), Camera, "Camera access", "We scan codes.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result {
		t.Error("expected granted result")
	}

	calls := host.methodCalls()
	want := []string{"shouldShowRationale", "showAlert", "request"}
	if len(calls) != 3 || calls[0] != want[0] || calls[1] != want[1] || calls[2] != want[2] {
		t.Errorf("native calls = %v, want %v", calls, want)
	}
	if host.alertArgs[0]["title"] != "Camera access" || host.alertArgs[0]["message"] != "We scan codes." {
		t.Errorf("unexpected rationale dialog args: %v", host.alertArgs[0])
	}
}

func TestRequestWithRationaleDismissed(t *testing.T) {
	// Dismissing the rationale dialog fails the flow without ever
	// requesting the permission, and shows the failure notice.
	host := &permissionHost{
		rationaleResp: rationale(true),
		alertResps:    []any{alertAction("dismiss"), alertAction("proceed")},
		requestResp:   granted(true),
	}
	platform.SetHost(host)
	t.Cleanup(platform.ResetForTest)

	result, err := Service.RequestWithRationale(context.Background(), Camera, "T", "M")
	if !errors.Is(err, ErrRationaleDismissed) {
		t.Fatalf("expected ErrRationaleDismissed, got result=%v err=%v", result, err)
	}

	for _, call := range host.methodCalls() {
		if call == "request" {
			t.Error("request must never fire after a dismissed rationale")
		}
	}

	if len(host.alertArgs) != 2 {
		t.Fatalf("expected rationale dialog plus failure notice, got %d alerts", len(host.alertArgs))
	}
	if host.alertArgs[1]["message"] != "Error Requesting Permissions" {
		t.Errorf("notice message = %v, want %q", host.alertArgs[1]["message"], "Error Requesting Permissions")
	}
}

func TestRequestWithRationaleDialogError(t *testing.T) {
	// A failing rationale dialog folds into the dismissed path.
	host := &permissionHost{
		rationaleResp: rationale(true),
		failMethod:    "showAlert",
		failCode:      "E_DIALOG",
		requestResp:   granted(true),
	}
	platform.SetHost(host)
	t.Cleanup(platform.ResetForTest)

	// Silence the reported dialog error during the test.
	old := ferrors.DefaultHandler
	ferrors.SetHandler(&discardHandler{})
	defer ferrors.SetHandler(old)

	_, err := Service.RequestWithRationale(context.Background(), Camera, "T", "M")
	if !errors.Is(err, ErrRationaleDismissed) {
		t.Fatalf("expected ErrRationaleDismissed, got %v", err)
	}
	for _, call := range host.methodCalls() {
		if call == "request" {
			t.Error("request must never fire after a failed rationale dialog")
		}
	}
}

func TestRequestWithRationaleCheckFailure(t *testing.T) {
	// A failing rationale query fails the flow before any dialog or request.
	host := &permissionHost{failMethod: "shouldShowRationale", failCode: "E_RATIONALE"}
	platform.SetHost(host)
	t.Cleanup(platform.ResetForTest)

	_, err := Service.RequestWithRationale(context.Background(), Camera, "T", "M")
	var channelErr *platform.ChannelError
	if !errors.As(err, &channelErr) {
		t.Fatalf("expected ChannelError, got %v", err)
	}
	if channelErr.Code != "E_RATIONALE" {
		t.Errorf("Code = %q, want %q", channelErr.Code, "E_RATIONALE")
	}

	calls := host.methodCalls()
	if len(calls) != 1 || calls[0] != "shouldShowRationale" {
		t.Errorf("expected only the rationale query, got %v", calls)
	}
}

func TestIsGranted(t *testing.T) {
	platform.SetHost(&permissionHost{checkResp: granted(true)})
	t.Cleanup(platform.ResetForTest)

	if !Service.IsGranted(context.Background(), Camera) {
		t.Error("expected true")
	}
}

func TestIsGrantedErrorMeansFalse(t *testing.T) {
	platform.SetHost(&permissionHost{failMethod: "check", failCode: "E_CHECK"})
	t.Cleanup(platform.ResetForTest)

	if Service.IsGranted(context.Background(), Camera) {
		t.Error("expected false on error")
	}
}

// discardHandler swallows reported errors.
type discardHandler struct{}

func (discardHandler) HandleError(*ferrors.FerryError) {}
func (discardHandler) HandlePanic(*ferrors.PanicError) {}
