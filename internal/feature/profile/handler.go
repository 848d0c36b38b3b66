package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"profile-service/internal/domain"
	"profile-service/internal/transport/http/ez"
	mdw "profile-service/internal/transport/http/middleware"
)

// Module mounts /profile/me behind the bearer-token check.
type Module struct {
	svc  *Service
	auth mdw.Authenticator
}

func NewModule(svc *Service, auth mdw.Authenticator) *Module {
	return &Module{svc: svc, auth: auth}
}

func (m *Module) Priority() int { return 20 }

type updateIn struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
	Bio  *string `json:"bio"`
}

type deleteOut struct {
	domain.Profile
	Message string `json:"message"`
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/profile")
	g.Use(mdw.AuthJWT(m.auth))
	e := ez.New(g)

	ez.Register(e, ez.Action[struct{}, domain.Profile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Profile, error) {
			caller, _ := mdw.CurrentUser(c)
			return m.svc.Read(c.Request.Context(), caller), nil
		},
	})

	update := func(c *gin.Context, in *updateIn) (domain.Profile, error) {
		caller, _ := mdw.CurrentUser(c)
		return m.svc.Update(c.Request.Context(), caller, UpdateInput{Name: in.Name, Bio: in.Bio})
	}
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		ez.Register(e, ez.Action[updateIn, domain.Profile]{
			Method:  method,
			Path:    "/me",
			Binder:  ez.BindOptionalJSON,
			Auth:    true,
			Handler: update,
		})
	}

	// Any body is ignored; the caller is whoever the token names.
	ez.Register(e, ez.Action[struct{}, deleteOut]{
		Method: http.MethodDelete,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (deleteOut, error) {
			caller, _ := mdw.CurrentUser(c)
			p, err := m.svc.SoftDelete(c.Request.Context(), caller)
			if err != nil {
				return deleteOut{}, err
			}
			return deleteOut{Profile: p, Message: "account deactivated"}, nil
		},
	})
}
