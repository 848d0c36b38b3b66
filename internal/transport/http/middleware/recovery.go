package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-service/internal/domain"
	resp "profile-service/internal/transport/http/response"
)

var errPanic = domain.NewError(domain.CodeInternal, "internal error")

// Recovery logs the panic with its stack and answers with the standard error body.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(resp.StatusOf(errPanic.Code), resp.Error(errPanic.Code, errPanic.Message))
	})
}
