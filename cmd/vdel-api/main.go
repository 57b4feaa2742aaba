// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vdeliveries/internal/config"
	"vdeliveries/internal/geocode"
	httptransport "vdeliveries/internal/http"
	"vdeliveries/internal/infra"
	"vdeliveries/internal/logging"
	"vdeliveries/internal/modules/order"
	"vdeliveries/internal/modules/payroll"
	"vdeliveries/internal/modules/presence"
	"vdeliveries/internal/modules/pricing"
	"vdeliveries/internal/modules/profile"
	"vdeliveries/internal/modules/settings"
	"vdeliveries/internal/realtime"

	"vdeliveries/internal/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New("vdel-api")

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	feed := realtime.NewRedisFeed(redisClient)

	settingsSvc := settings.NewService(settings.NewPgStore(dbPool))
	pricingSvc := pricing.NewService(settingsSvc)

	presenceSvc := presence.NewService(presence.NewRedisPgStore(dbPool, redisClient), feed, logger)

	orderSvc := order.NewService(order.NewPgStore(dbPool), pricingSvc, presenceSvc, feed, logger)

	profileSvc := profile.NewService(profile.NewPgStore(dbPool))
	payrollSvc := payroll.NewService(payroll.NewPgStore(dbPool))

	geocodeSvc, err := geocode.NewService(cfg.Geocoding.GoogleAPIKey, cfg.Geocoding.Timeout)
	if err != nil {
		log.Fatalf("geocoding init: %v", err)
	}

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Orders:       orderSvc,
		Pricing:      pricingSvc,
		Presence:     presenceSvc,
		Profiles:     profileSvc,
		Settings:     settingsSvc,
		Payroll:      payrollSvc,
		Geocode:      geocodeSvc,
		Feed:         feed,
		Tokens:       tokens,
		Log:          logger,
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "server shutdown", err, nil)
		}
	}()

	logger.Info("startup", "listening", map[string]any{"addr": cfg.HTTP.Addr})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
