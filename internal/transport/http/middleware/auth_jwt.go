package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-service/internal/domain"
	resp "profile-service/internal/transport/http/response"
)

const (
	KeyUser   = "user"
	KeyUserID = "userId"
	KeyToken  = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthJWT resolves the bearer token to a user and stores it on the context.
func AuthJWT(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			resp.Fail(c, domain.ErrUnauthenticated)
			return
		}
		u, err := a.Authenticate(c.Request.Context(), tok)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		c.Set(KeyToken, tok)
		c.Set(KeyUser, u)
		c.Set(KeyUserID, u.ID)
		c.Next()
	}
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, tok, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

func CurrentToken(c *gin.Context) string { return c.GetString(KeyToken) }
