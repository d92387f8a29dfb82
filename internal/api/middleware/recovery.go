package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/reversigame-go/internal/api/apierr"
	"github.com/mcoot/reversigame-go/internal/middleware"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR response
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), writeInternalError)
}

func writeInternalError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
