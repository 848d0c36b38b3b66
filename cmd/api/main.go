package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	coreauth "profile-service/internal/core/auth"
	"profile-service/internal/core/cache"
	"profile-service/internal/core/config"
	"profile-service/internal/core/database"
	"profile-service/internal/core/logger"
	"profile-service/internal/core/server"
	"profile-service/internal/domain"
	"profile-service/internal/feature/auth"
	"profile-service/internal/feature/profile"
	"profile-service/internal/repo"
	"profile-service/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: cfg.App.Env == "local",
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			ErrorFile:  cfg.Log.File.ErrorFile,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	store := repo.NewUserRepo(db)
	if cfg.DB.AutoMigrate {
		if err := store.Migrate(context.Background()); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	checks := map[string]router.Pinger{"db": func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}

	var users domain.UserRepository = store
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix, log)
		defer func() { _ = c.Close() }()
		users = repo.NewCachedUserRepo(store, c, time.Duration(cfg.Redis.UserTTLSec)*time.Second, log)
		checks["redis"] = c.Ping
		log.Info("user cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	jwter := &coreauth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		Leeway: time.Duration(cfg.JWT.LeewaySec) * time.Second,
	}
	authSvc := auth.NewService(users, coreauth.BcryptHasher{Cost: cfg.Auth.BcryptCost}, jwter, log.Named("auth"))
	profileSvc := profile.NewService(users, log.Named("profile"))

	r := router.NewAPIEngine(router.Deps{
		Log:          log,
		Auth:         authSvc,
		Profile:      profileSvc,
		MaxInFlight:  cfg.App.HTTP.MaxInFlight,
		MaxBodyBytes: cfg.App.HTTP.MaxBodyBytes,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("profile api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("profile api start FAILED", zap.Error(err))
		}
	}()

	var ops *http.Server
	if cfg.App.Ops.Enable {
		ops = server.BuildServer(server.Addr(cfg.App.Ops.Host, cfg.App.Ops.Port), router.NewOpsEngine(log, checks),
			5*time.Second, 10*time.Second, 60*time.Second)
		go func() {
			if err := server.StartHTTP(ops, log.Named("ops")); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("ops listener stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("profile api shutdown", zap.Error(err))
	}
	if ops != nil {
		_ = ops.Shutdown(ctx)
	}
	log.Info("profile api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	gl, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             gl,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
