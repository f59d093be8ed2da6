package models

import "time"

// Response is the structured payload recorded after every coordinator action.
// It is displayed until a later action overwrites it. Error is set instead of
// Message when the action failed.
type Response struct {
	ID        string         `json:"id"`
	Message   string         `json:"message,omitempty"`
	Error     string         `json:"error,omitempty"`
	Success   *bool          `json:"success,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Failed reports whether the response carries an error payload.
func (r *Response) Failed() bool {
	return r != nil && r.Error != ""
}

// Snapshot is a point-in-time copy of the coordinator state.
type Snapshot struct {
	Platform           Platform         `json:"platform"`
	SDKReady           bool             `json:"sdk_ready"`
	Loading            bool             `json:"loading"`
	UpdatingPermission string           `json:"updating_permission,omitempty"`
	Purposes           []*Purpose       `json:"purposes"`
	Permissions        []*AppPermission `json:"permissions"`
	LastResponse       *Response        `json:"last_response,omitempty"`
}
