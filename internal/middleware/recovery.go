package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/pkg/apierrors"
	"go.uber.org/zap"
)

// Recovery converts panics into the standard 500 envelope. Internals are
// logged, never returned to the caller.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("method", ctx.Request.Method),
		)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
	})
}
