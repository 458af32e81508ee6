package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/config"
	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/logging"
	"github.com/liftlog/internal/metrics"
	"github.com/liftlog/internal/router"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.LogFile,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if user, err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	} else if user != nil {
		log.WithField("username", user.Username).Info("root user ready")
	}

	opts := router.Options{SessionSecret: cfg.SessionSecret}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics.NewManager("liftlog", "server", prometheus.DefaultRegisterer)
		opts.Gatherer = prometheus.DefaultGatherer
	}

	// 设置并运行 Gin 服务器
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(db.DB, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(log.Fields{"addr": cfg.ListenAddr, "db_type": cfg.DBType}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = multierr.Append(srv.Shutdown(shutdownCtx), db.Close())
	if err != nil {
		log.Errorf("shutdown finished with errors: %v", err)
		return
	}
	log.Info("bye")
}
