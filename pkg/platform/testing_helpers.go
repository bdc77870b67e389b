package platform

// noopHost is a Host that settles every call with a null result.
type noopHost struct{}

func (noopHost) InvokeMethod(channel, method string, callID int64, args []byte) error {
	CompleteCall(callID, []byte("null"))
	return nil
}
func (noopHost) StartEventStream(string) error { return nil }
func (noopHost) StopEventStream(string) error  { return nil }

// SetupTestHost installs a no-op native host for testing. The cleanup
// function should be testing.T.Cleanup or equivalent; it registers a
// teardown that calls ResetForTest.
//
//	platform.SetupTestHost(t.Cleanup)
func SetupTestHost(cleanup func(func())) {
	SetHost(noopHost{})
	cleanup(ResetForTest)
}
