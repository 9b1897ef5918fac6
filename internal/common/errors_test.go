package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteErrorUsesAppError(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewAppError(CodeEmptyCart, "cart is empty", http.StatusConflict, base))

	rr := httptest.NewRecorder()
	WriteError(rr, err)

	require.Equal(t, http.StatusConflict, rr.Code)
	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, CodeEmptyCart, body.Error.Code)
	require.Equal(t, "cart is empty", body.Error.Message)
	require.ErrorIs(t, err, base)
	require.True(t, IsAppError(err))
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("secret detail"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "secret detail")
}
