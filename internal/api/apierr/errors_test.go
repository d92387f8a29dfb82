package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/auth"
)

func TestWriteErrorMapsPlacementRejections(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrCellOccupied, http.StatusConflict, CodeCellOccupied},
		{model.ErrNoCapture, http.StatusUnprocessableEntity, CodeNoCapture},
		{model.ErrInvalidPosition, http.StatusBadRequest, CodeInvalidPosition},
		{model.ErrGameComplete, http.StatusConflict, CodeGameComplete},
		{model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn},
		{model.ErrNotSeated, http.StatusForbidden, CodeNotSeated},
		{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestWrappedErrorsAreMapped(t *testing.T) {
	err := fmt.Errorf("%w: bad row", model.ErrCorruptGameState)
	assert.Equal(t, http.StatusInternalServerError, Status(err))

	err = fmt.Errorf("placing: %w", model.ErrNoCapture)
	assert.Equal(t, http.StatusUnprocessableEntity, Status(err))
}

func TestUnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestConstructedErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(NewInvalidRequestError("x is required")))
	assert.Equal(t, http.StatusUnauthorized, Status(NewUnauthorizedError()))
	assert.Equal(t, http.StatusInternalServerError, Status(NewInternalError()))
}
