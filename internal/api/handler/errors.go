package handler

import (
	"net/http"

	"github.com/mcoot/reversigame-go/internal/api/apierr"
)

// WriteError reports err with the status and code apierr maps it to
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError reports a malformed request body or parameter
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError reports a missing session
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}
