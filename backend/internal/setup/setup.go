package setup

import (
	"fmt"

	"github.com/itchan-dev/boardsync/backend/internal/broadcast"
	"github.com/itchan-dev/boardsync/backend/internal/handler"
	"github.com/itchan-dev/boardsync/backend/internal/order"
	"github.com/itchan-dev/boardsync/backend/internal/service"
	serviceutils "github.com/itchan-dev/boardsync/backend/internal/service/utils"
	"github.com/itchan-dev/boardsync/backend/internal/storage/pg"
	"github.com/itchan-dev/boardsync/backend/internal/utils"
	"github.com/itchan-dev/boardsync/shared/config"
	"github.com/itchan-dev/boardsync/shared/jwt"
	"github.com/itchan-dev/boardsync/shared/logger"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Bus            *broadcast.RedisBus
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	bus, err := broadcast.NewRedisBusFromURL(cfg.Private.RedisURL)
	if err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("failed to set up event transport: %w", err)
	}
	broadcaster := broadcast.New(bus, cfg.PublishTimeout())

	boards := service.NewBoards(storage, broadcaster, order.New(cfg.Public.OrderStep), &utils.CardValidator{}, serviceutils.NewRenderer())

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	h := handler.New(boards, broadcaster, map[string]handler.Pinger{
		"database": storage,
		"redis":    bus,
	})

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Bus:            bus,
		Handler:        h,
		AuthMiddleware: mw.NewAuth(jwtService),
	}, nil
}

// Close releases the connections opened by SetupDependencies.
func (d *Dependencies) Close() {
	if err := d.Bus.Close(); err != nil {
		logger.Log.Error("failed to close redis client", "error", err)
	}
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close database", "error", err)
	}
}
