package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
		text   string
	}{
		{"Server", NewServer(cause), http.StatusInternalServerError, "Internal server error", "dial tcp: refused"},
		{"Business", NewBusiness("nope", CodeUnauthorized), http.StatusUnauthorized, "nope", "nope"},
		{"InvalidInputWrapped", NewInvalidInput(cause), http.StatusUnprocessableEntity, "Validation error", "dial tcp: refused"},
		{"InvalidFormatDefault", NewInvalidFormat(), http.StatusBadRequest, "Invalid request body", "Invalid request body"},
		{"InvalidFormatCustom", NewInvalidFormat("bad json"), http.StatusBadRequest, "bad json", "bad json"},
		{"OddPairs", NewInvalidInput(nil, "only-key"), http.StatusBadRequest, "Invalid request body", "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			require.ErrorAs(t, tt.err, &gerr)
			assert.Equal(t, tt.status, gerr.StatusCode())
			assert.Equal(t, tt.msg, gerr.Msg())
			assert.Equal(t, tt.text, gerr.Error())
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "channel", "channel must be email or sms", "code", "required")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{
		"channel": "channel must be email or sms",
		"code":    "required",
	}, gerr.Fields())
	assert.Equal(t, TypeValidation, gerr.Type())
	assert.Equal(t, CodeInvalidInput, gerr.Code())
}

func TestError_UnwrapAndString(t *testing.T) {
	err := NewServer(ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, `type=server code=internal msg="Internal server error" cause=resource not found`, gerr.String())
	assert.Equal(t, "forbidden", CodeForbidden.String())
	assert.Equal(t, "internal", Code(99).String())
	assert.Equal(t, http.StatusInternalServerError, (&Error{code: Code(99)}).StatusCode())
}
