package main

//	@title			Crowdfund API
//	@version		1.0
//	@description	Crowdfunding platform backend.
//	@schemes		http https
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				User JWT (e.g., "Bearer eyJ...")

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hossamkoky599/crowdfund/internal/bootstrap"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/mailer"
	"github.com/hossamkoky599/crowdfund/internal/modules/handler"
	"github.com/hossamkoky599/crowdfund/internal/router"
	"github.com/hossamkoky599/crowdfund/internal/telemetry"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	db := do.MustInvoke[*gorm.DB](inj)

	// Setup OpenTelemetry tracing (using configuration system)
	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
	} else if tp != nil {
		log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				log.Sugar().Errorw("failed to shutdown tracer", "err", err)
			}
		}()
	}

	// init gin
	gin.SetMode(cfg.App.Env)

	// mail worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	mqConn := do.MustInvoke[*amqp.Connection](inj)
	worker := mailer.NewWorker(mqConn, cfg, log)
	go func() {
		if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Sugar().Errorw("mail worker stopped", "err", err)
		}
	}()

	engine := router.NewRouter(router.RouterDeps{
		Config:            cfg,
		DB:                db,
		Log:               log,
		AccountHandler:    do.MustInvoke[*handler.AccountHandler](inj),
		ProjectHandler:    do.MustInvoke[*handler.ProjectHandler](inj),
		DonationHandler:   do.MustInvoke[*handler.DonationHandler](inj),
		RatingHandler:     do.MustInvoke[*handler.RatingHandler](inj),
		EngagementHandler: do.MustInvoke[*handler.EngagementHandler](inj),
		FeedHandler:       do.MustInvoke[*handler.FeedHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	log.Sugar().Info("server exited")
}
