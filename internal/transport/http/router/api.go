package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-service/internal/core/server"
	"profile-service/internal/feature/auth"
	"profile-service/internal/feature/profile"
	mdw "profile-service/internal/transport/http/middleware"
)

type Deps struct {
	Log          *zap.Logger
	Auth         *auth.Service
	Profile      *profile.Service
	MaxInFlight  int64
	MaxBodyBytes int64
}

func NewAPIEngine(d Deps) *gin.Engine {
	if d.MaxInFlight <= 0 {
		d.MaxInFlight = 300
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = 1 << 20
	}

	r := server.NewRouter(d.Log)
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(d.MaxInFlight),
		mdw.MaxBodyBytes(d.MaxBodyBytes),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "profile-service is running"}) })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	var reg Registry
	reg.Register(
		auth.NewModule(d.Auth),
		profile.NewModule(d.Profile, d.Auth),
	)
	reg.MountAllAPI(r.Group(""))

	return r
}
