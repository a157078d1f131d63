package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

type sampleRequest struct {
	Name  string       `json:"name" validate:"required"`
	Email string       `json:"email" validate:"omitempty,email"`
	Items []sampleItem `json:"items" validate:"required,min=1,dive"`
}

func TestDecodeAndValidateReportsJSONFieldNames(t *testing.T) {
	body := `{"email":"nope","items":[{"productId":"x","quantity":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst sampleRequest
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	fields := appErr.Details.(map[string]string)
	require.Equal(t, "is required", fields["name"])
	require.Equal(t, "must be a valid email address", fields["email"])
	require.Equal(t, "must be a valid UUID", fields["items[0].productId"])
	require.Equal(t, "must be greater than 0", fields["items[0].quantity"])
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var dst sampleRequest
	err := DecodeAndValidate(req, &dst)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "BAD_REQUEST", appErr.Code)
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	err := Validate(sampleRequest{
		Name:  "Acme",
		Items: []sampleItem{{ProductID: "0b7c4f5e-2f0a-4a43-9d2b-5b8c9b0d4a11", Quantity: 2}},
	})
	require.NoError(t, err)
}
