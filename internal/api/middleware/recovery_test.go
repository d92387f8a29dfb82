package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/reversigame-go/internal/api/apierr"
	"github.com/mcoot/reversigame-go/internal/testutil"
)

func TestRecoveryWritesInternalError(t *testing.T) {
	logger := testutil.NopLogger()
	h := Recovery(logger)(Logging(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("flip out of range")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeInternalError, body.Error.Code)
}
