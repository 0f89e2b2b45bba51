package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/config"
	"github.com/smallbiznis/userhub/internal/observability/logger"
	"github.com/smallbiznis/userhub/internal/observability/metrics"
	"github.com/smallbiznis/userhub/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rpc",
	fx.Provide(
		NewDispatcher,
		NewProfileHandler,
		NewSettingsHandler,
		NewSubscriptionHandler,
		NewStatusHandler,
		NewEngine,
	),
	fx.Invoke(registerHandlers),
	fx.Invoke(run),
)

func registerHandlers(
	d *Dispatcher,
	profile *ProfileHandler,
	settings *SettingsHandler,
	subscription *SubscriptionHandler,
	status *StatusHandler,
) {
	profile.Register(d)
	settings.Register(d)
	subscription.Register(d)
	status.Register(d)
}

type EngineParams struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Metrics    *metrics.HTTPMetrics
	Clock      clock.Clock
	Dispatcher *Dispatcher
}

func NewEngine(p EngineParams) *gin.Engine {
	if p.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		logger.GinMiddleware(p.Log),
		tracing.GinMiddleware(),
		metrics.GinMiddleware(p.Metrics),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/rpc", handleRPC(p.Dispatcher, p.Clock))

	return engine
}

func handleRPC(d *Dispatcher, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		var env Envelope
		if err := c.ShouldBindJSON(&env); err != nil {
			c.JSON(http.StatusBadRequest, newError("invalid_request", err.Error(), clk.Now()))
			return
		}

		data, err := d.Dispatch(c.Request.Context(), env)
		if err != nil {
			status, code := mapError(err)
			message := err.Error()
			if status == http.StatusInternalServerError {
				// Internal details stay in the logs.
				logger.FromContext(c.Request.Context()).Error("rpc handler failed",
					zap.String("pattern", env.Pattern), zap.Error(err))
				message = "internal server error"
			}
			c.JSON(status, newError(code, message, clk.Now()))
			return
		}

		c.JSON(http.StatusOK, newSuccess(data, clk.Now()))
	}
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("http server shutting down")
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		},
	})
}
