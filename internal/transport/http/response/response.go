package response

import (
	"github.com/gin-gonic/gin"

	"profile-service/internal/domain"
)

type Resp struct {
	Code domain.ErrorCode `json:"code"`
	Msg  string           `json:"msg"`
}

func Error(code domain.ErrorCode, msg string) Resp {
	return Resp{Code: code, Msg: msg}
}

// Fail aborts c with err's status and client-safe message. Server-side
// failures are attached to c.Errors for the access log.
func Fail(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status := StatusOf(code)
	if status >= 500 {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Error(code, domain.MessageOf(err)))
}
