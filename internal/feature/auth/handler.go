package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"profile-service/internal/transport/http/ez"
	mdw "profile-service/internal/transport/http/middleware"
)

// Module mounts /auth/* on an API group.
type Module struct {
	svc *Service
}

func NewModule(svc *Service) *Module { return &Module{svc: svc} }

func (m *Module) Priority() int { return 10 }

type signupIn struct {
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
	Name     string `json:"name"     binding:"required,max=255"`
}

type signupOut struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type changePasswordIn struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=72"`
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/auth")
	public := ez.New(g)

	ez.Register(public, ez.Action[signupIn, signupOut]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *signupIn) (signupOut, error) {
			u, err := m.svc.Signup(c.Request.Context(), SignupInput{
				Email:    in.Email,
				Password: in.Password,
				Name:     in.Name,
			})
			if err != nil {
				return signupOut{}, err
			}
			return signupOut{ID: u.ID, Name: u.Name, Email: u.Email, Message: "user created"}, nil
		},
	})

	ez.Register(public, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, err := m.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{AccessToken: tok, TokenType: "bearer"}, nil
		},
	})

	authed := g.Group("")
	authed.Use(mdw.AuthJWT(m.svc))
	private := ez.New(authed)

	ez.Register(private, ez.Action[struct{}, struct{}]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, m.svc.Logout(c.Request.Context(), mdw.CurrentToken(c))
		},
	})

	ez.Register(private, ez.Action[changePasswordIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/change-password",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *changePasswordIn) (struct{}, error) {
			caller, _ := mdw.CurrentUser(c)
			return struct{}{}, m.svc.ChangePassword(c.Request.Context(), caller, in.OldPassword, in.NewPassword)
		},
	})
}
