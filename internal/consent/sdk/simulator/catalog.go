package simulator

import "consentsync/internal/consent/models"

// DefaultPurposes is the purpose catalog served when none is seeded.
func DefaultPurposes() []*models.Purpose {
	return []*models.Purpose{
		{
			ID:    1,
			Names: map[string]string{"en": "Analytics"},
			SDKs: []models.SDK{
				{ID: 101, Name: "Firebase Analytics", Namespace: "com.google.firebase.analytics"},
			},
		},
		{
			ID:    2,
			Names: map[string]string{"en": "Advertising"},
			SDKs: []models.SDK{
				{ID: 201, Name: "Google Mobile Ads", Namespace: "com.google.android.gms.ads"},
				{ID: 202, Name: "Meta Audience Network", Namespace: "com.facebook.ads"},
			},
		},
		{
			ID:    3,
			Names: map[string]string{"en": "Personalization"},
		},
	}
}

// DefaultPermissions is the permission catalog for platform.
func DefaultPermissions(platform models.Platform) []*models.AppPermission {
	if platform == models.PlatformAndroid {
		return []*models.AppPermission{
			{ID: "android.permission.CAMERA", Name: "Camera"},
			{ID: "android.permission.RECORD_AUDIO", Name: "Microphone"},
			{ID: "android.permission.ACCESS_FINE_LOCATION", Name: "Location"},
			{ID: "android.permission.READ_CONTACTS", Name: "Contacts"},
		}
	}
	return []*models.AppPermission{
		{ID: "NSCameraUsageDescription", Name: "Camera"},
		{ID: "NSMicrophoneUsageDescription", Name: "Microphone"},
		{ID: "NSLocationWhenInUseUsageDescription", Name: "Location When In Use"},
		{ID: "NSContactsUsageDescription", Name: "Contacts"},
		{ID: "NSUserTrackingUsageDescription", Name: "Tracking"},
	}
}
