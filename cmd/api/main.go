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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pg-hostel-api/internal/core/auth"
	"pg-hostel-api/internal/core/cache"
	"pg-hostel-api/internal/core/config"
	"pg-hostel-api/internal/core/database"
	"pg-hostel-api/internal/core/logger"
	"pg-hostel-api/internal/core/otp"
	"pg-hostel-api/internal/core/server"
	"pg-hostel-api/internal/domain"
	"pg-hostel-api/internal/notify"
	"pg-hostel-api/internal/repo"
	"pg-hostel-api/internal/service"
	"pg-hostel-api/internal/storage"
	"pg-hostel-api/internal/transport/http/handler"
	mdw "pg-hostel-api/internal/transport/http/middleware"
	"pg-hostel-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Hostel{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 进程级有状态组件：OTP 表 + 吊销表，按引用注入
	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLDays) * 24 * time.Hour,
	}
	blacklist := auth.NewBlacklist()
	otpStore := otp.NewStore(time.Duration(cfg.OTP.TTLMin) * time.Minute)

	var rdb *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	files, err := storage.NewFileStore(cfg.Media.Dir)
	if err != nil {
		log.Fatal("media dir", zap.Error(err))
	}
	mailer := notify.NewSMTPMailer(cfg.Mail, log)

	userSvc := service.NewUserService(
		repo.NewUserRepo(db), jwter, blacklist, otpStore, mailer, files, log,
		cfg.App.BaseURL, cfg.Media.MaxUploadBytes,
	)
	hostelSvc := service.NewHostelService(repo.NewHostelRepo(db), rdb, log)

	authMW := mdw.AuthJWT(jwter, blacklist)
	mediaBase := cfg.App.BaseURL + "/media/profile_images"
	router.Register(handler.NewUserHandler(userSvc, authMW, mediaBase, cfg.Media.MaxUploadBytes))
	router.Register(handler.NewHostelHandler(hostelSvc, authMW))

	r := router.NewAPIEngine(log, router.Options{MediaDir: cfg.Media.Dir})

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
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
