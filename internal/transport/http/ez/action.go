package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-service/internal/domain"
	mdw "profile-service/internal/transport/http/middleware"
	resp "profile-service/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON         Binder = "json"          // body must be a JSON object
	BindOptionalJSON Binder = "optional_json" // empty body binds to the zero value
	BindNone         Binder = "none"          // body is ignored entirely
)

// Action describes one endpoint. I is the bound input, O the success body.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Auth requires middleware.AuthJWT to have resolved a caller.
	Auth bool
	// Status is the success status; http.StatusNoContent suppresses the body.
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

var errMissingCaller = domain.ErrUnauthenticated

func ValidationError(err error) error {
	return domain.WrapError(domain.CodeValidation, "invalid request: "+bindMessage(err), err)
}

func bindMessage(err error) string {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return "request body too large"
	case errors.Is(err, io.EOF):
		return "request body is empty"
	default:
		return err.Error()
	}
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		if a.Auth {
			if _, ok := mdw.CurrentUser(c); !ok {
				resp.Fail(c, errMissingCaller)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindOptionalJSON:
			if c.Request.ContentLength != 0 {
				bindErr = c.ShouldBindJSON(&in)
				if errors.Is(bindErr, io.EOF) {
					bindErr = nil
				}
			}
		}
		if bindErr != nil {
			resp.Fail(c, ValidationError(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}
