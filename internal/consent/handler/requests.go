package handler

import "consentsync/internal/consent/models"

// SetConsentRequest sets a purpose or permission consent. Only granted and
// declined are accepted.
type SetConsentRequest struct {
	Status string `json:"status" validate:"required,oneof=granted declined"`
}

func (r *SetConsentRequest) ConsentStatus() models.ConsentStatus {
	return models.ParseConsentStatus(r.Status)
}

// AppStateRequest reports an app lifecycle transition.
type AppStateRequest struct {
	State string `json:"state" validate:"required,oneof=active background inactive"`
}
