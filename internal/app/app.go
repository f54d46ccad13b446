package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/meddirsvc/internal/config"
	httpx "github.com/you/meddirsvc/internal/http"
	"github.com/you/meddirsvc/internal/http/handlers"
	"github.com/you/meddirsvc/internal/http/middleware"
	"github.com/you/meddirsvc/internal/infrastructure/logging"
)

// Run wires the container and serves until the listener stops.
func Run(cfg *config.Config) error {
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.UserRepo, c.Audit)
	userH := handlers.NewUserHandlers(c.UserRepo, c.ManageSvc)
	facilityH := handlers.NewFacilityHandlers(c.FacilitySvc, c.PlacesSvc)
	manageH := handlers.NewManageHandlers(c.ManageSvc)

	gate := middleware.NewGate(c.TokenSvc, c.SessionRepo, c.AuthzSvc, c.Audit, logger)

	r := httpx.BuildRouter(authH, userH, facilityH, manageH, gate, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}
