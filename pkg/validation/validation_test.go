package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consentsync/pkg/domain-errors"
)

type consentBody struct {
	Status string `json:"status" validate:"required,oneof=granted declined"`
}

type stateBody struct {
	AppState string `json:"app_state,omitempty" validate:"notblank"`
}

type untaggedBody struct {
	Location string `validate:"max=8"`
}

func TestValidate(t *testing.T) {
	t.Run("accepts settable status", func(t *testing.T) {
		require.NoError(t, Validate(&consentBody{Status: "granted"}))
	})

	t.Run("missing field reports required", func(t *testing.T) {
		err := Validate(&consentBody{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "status is required", err.Error())
	})

	t.Run("unknown value reports oneof", func(t *testing.T) {
		err := Validate(&consentBody{Status: "unknown"})
		require.Error(t, err)
		assert.Equal(t, "status must be one of [granted declined]", err.Error())
	})

	t.Run("blank string reports notblank with the json name", func(t *testing.T) {
		err := Validate(&stateBody{AppState: "   "})
		require.Error(t, err)
		assert.Equal(t, "app_state must not be blank", err.Error())
	})

	t.Run("untagged field keeps the go name", func(t *testing.T) {
		err := Validate(&untaggedBody{Location: "TOO-LONG-CODE"})
		require.Error(t, err)
		assert.Equal(t, "Location must be at most 8", err.Error())
	})
}

func TestErrorMessageForeignError(t *testing.T) {
	assert.Equal(t, "invalid request body", ErrorMessage(errors.New("boom")))
}

func TestCheckStringLength(t *testing.T) {
	id := strings.Repeat("a", MaxPermissionIDLength)
	assert.NoError(t, CheckStringLength("permission_id", id, MaxPermissionIDLength))

	err := CheckStringLength("permission_id", id+"a", MaxPermissionIDLength)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "permission_id exceeds max length of 128")
}
