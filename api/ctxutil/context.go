package ctxutil

import (
	"context"

	"cafeledger/api/response"
	"cafeledger/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID copies the request id from the gin context onto the request
// context so lower layers (repositories, gorm logger) can log it.
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
