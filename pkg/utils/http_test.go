package utils_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gt=0"`
}

func TestDecodeBody(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"a","count":1}`},
		{name: "unknown field", body: `{"name":"a","price":1}`, wantErr: true},
		{name: "trailing document", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "truncated", body: `{"name":`, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", 1<<20) + `"}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var p payload
			err := utils.DecodeBody(httptest.NewRecorder(), req, &p)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payload{Name: "a", Count: 1}, p)
		})
	}
}

func TestWriteValidationError(t *testing.T) {
	err := validator.New().Struct(payload{})
	require.Error(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, utils.WriteValidationError(rr, err))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"code": "invalid_request",
		"message": "request validation failed",
		"fields": {"Name": "required", "Count": "gt"}
	}`, rr.Body.String())
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, utils.WriteError(rr, "payment_declined", "payment declined", http.StatusPaymentRequired))

	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.JSONEq(t, `{"code":"payment_declined","message":"payment declined"}`, rr.Body.String())
}
