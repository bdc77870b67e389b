// Package permissions bridges Android runtime permissions to Go code.
// It exposes the manifest permission catalog and a service for checking
// and requesting dangerous permissions, including the rationale-dialog
// flow recommended by platform guidance.
package permissions

import "sort"

// Manifest permission identifiers, passed through to the native layer
// verbatim. The values match android.Manifest.permission exactly.
const (
	ReadCalendar         = "android.permission.READ_CALENDAR"
	WriteCalendar        = "android.permission.WRITE_CALENDAR"
	Camera               = "android.permission.CAMERA"
	ReadContacts         = "android.permission.READ_CONTACTS"
	WriteContacts        = "android.permission.WRITE_CONTACTS"
	GetAccounts          = "android.permission.GET_ACCOUNTS"
	AccessFineLocation   = "android.permission.ACCESS_FINE_LOCATION"
	AccessCoarseLocation = "android.permission.ACCESS_COARSE_LOCATION"
	RecordAudio          = "android.permission.RECORD_AUDIO"
	ReadPhoneState       = "android.permission.READ_PHONE_STATE"
	CallPhone            = "android.permission.CALL_PHONE"
	ReadCallLog          = "android.permission.READ_CALL_LOG"
	WriteCallLog         = "android.permission.WRITE_CALL_LOG"
	AddVoicemail         = "com.android.voicemail.permission.ADD_VOICEMAIL"
	UseSIP               = "android.permission.USE_SIP"
	ProcessOutgoingCalls = "android.permission.PROCESS_OUTGOING_CALLS"
	BodySensors          = "android.permission.BODY_SENSORS"
	SendSMS              = "android.permission.SEND_SMS"
	ReceiveSMS           = "android.permission.RECEIVE_SMS"
	ReadSMS              = "android.permission.READ_SMS"
	ReceiveWapPush       = "android.permission.RECEIVE_WAP_PUSH"
	ReceiveMMS           = "android.permission.RECEIVE_MMS"
	ReadExternalStorage  = "android.permission.READ_EXTERNAL_STORAGE"
	WriteExternalStorage = "android.permission.WRITE_EXTERNAL_STORAGE"
)

// catalog maps symbolic names to manifest identifiers. The map stays
// unexported so callers cannot mutate it; use Resolve and Names.
var catalog = map[string]string{
	"READ_CALENDAR":          ReadCalendar,
	"WRITE_CALENDAR":         WriteCalendar,
	"CAMERA":                 Camera,
	"READ_CONTACTS":          ReadContacts,
	"WRITE_CONTACTS":         WriteContacts,
	"GET_ACCOUNTS":           GetAccounts,
	"ACCESS_FINE_LOCATION":   AccessFineLocation,
	"ACCESS_COARSE_LOCATION": AccessCoarseLocation,
	"RECORD_AUDIO":           RecordAudio,
	"READ_PHONE_STATE":       ReadPhoneState,
	"CALL_PHONE":             CallPhone,
	"READ_CALL_LOG":          ReadCallLog,
	"WRITE_CALL_LOG":         WriteCallLog,
	"ADD_VOICEMAIL":          AddVoicemail,
	"USE_SIP":                UseSIP,
	"PROCESS_OUTGOING_CALLS": ProcessOutgoingCalls,
	"BODY_SENSORS":           BodySensors,
	"SEND_SMS":               SendSMS,
	"RECEIVE_SMS":            ReceiveSMS,
	"READ_SMS":               ReadSMS,
	"RECEIVE_WAP_PUSH":       ReceiveWapPush,
	"RECEIVE_MMS":            ReceiveMMS,
	"READ_EXTERNAL_STORAGE":  ReadExternalStorage,
	"WRITE_EXTERNAL_STORAGE": WriteExternalStorage,
}

// Resolve returns the manifest identifier for a symbolic catalog name,
// e.g. Resolve("CAMERA") returns "android.permission.CAMERA".
func Resolve(name string) (string, bool) {
	id, ok := catalog[name]
	return id, ok
}

// Names returns the symbolic catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
