package models

// PermissionStatus is the OS determination state reported by the native bridge.
type PermissionStatus string

const (
	PermissionGranted          PermissionStatus = "granted"
	PermissionDenied           PermissionStatus = "denied"
	PermissionNotDetermined    PermissionStatus = "not_determined"
	PermissionLimited          PermissionStatus = "limited"
	PermissionNotAvailable     PermissionStatus = "not_available"
	PermissionGrantedAlways    PermissionStatus = "granted_always"
	PermissionGrantedWhenInUse PermissionStatus = "granted_when_in_use"
)

var permissionStatuses = map[PermissionStatus]struct{}{
	PermissionGranted:          {},
	PermissionDenied:           {},
	PermissionNotDetermined:    {},
	PermissionLimited:          {},
	PermissionNotAvailable:     {},
	PermissionGrantedAlways:    {},
	PermissionGrantedWhenInUse: {},
}

// IsValid reports whether s is one of the seven bridge statuses.
func (s PermissionStatus) IsValid() bool {
	_, ok := permissionStatuses[s]
	return ok
}

// NormalizePermissionStatus maps anything outside the seven statuses to not_available.
func NormalizePermissionStatus(s string) PermissionStatus {
	status := PermissionStatus(s)
	if status.IsValid() {
		return status
	}
	return PermissionNotAvailable
}

// PermissionResult is the outcome of a native permission prompt.
type PermissionResult struct {
	Status            PermissionStatus `json:"status"`
	AlreadyDetermined *bool            `json:"alreadyDetermined,omitempty"`
	Error             string           `json:"error,omitempty"`
	Note              string           `json:"note,omitempty"`
}

// Platform identifies the OS family the app runs on.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// IsValid reports whether p is a supported platform family.
func (p Platform) IsValid() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// NativePermissionIDs lists the iOS usage-description keys that can be prompted
// natively. Other permission ids are only reachable through settings.
var NativePermissionIDs = []string{
	"NSAppleMusicUsageDescription",
	"NSPhotoLibraryUsageDescription",
	"NSCameraUsageDescription",
	"NSMicrophoneUsageDescription",
	"NSContactsUsageDescription",
	"NSCalendarsUsageDescription",
	"NSRemindersUsageDescription",
	"NSLocationWhenInUseUsageDescription",
	"NSLocationAlwaysUsageDescription",
	"NSSpeechRecognitionUsageDescription",
	"NSUserTrackingUsageDescription",
	"NSFaceIDUsageDescription",
	"NSMotionUsageDescription",
	"NSHealthShareUsageDescription",
	"NSBluetoothAlwaysUsageDescription",
	"NSBluetoothPeripheralUsageDescription",
	"NSLocalNetworkUsageDescription",
}

var nativePermissionSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(NativePermissionIDs))
	for _, id := range NativePermissionIDs {
		set[id] = struct{}{}
	}
	return set
}()

// IsNativePermission reports whether id can be prompted through the native module.
func IsNativePermission(id string) bool {
	_, ok := nativePermissionSet[id]
	return ok
}

// AppState is the lifecycle state reported by the host application.
type AppState string

const (
	AppStateActive     AppState = "active"
	AppStateBackground AppState = "background"
	AppStateInactive   AppState = "inactive"
)
