package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cekaratas/randevu/internal/api"
	"github.com/cekaratas/randevu/internal/appointment"
	"github.com/cekaratas/randevu/internal/auth"
	"github.com/cekaratas/randevu/internal/config"
	"github.com/cekaratas/randevu/internal/logging"
	"github.com/cekaratas/randevu/internal/notify"
	"github.com/cekaratas/randevu/internal/settings"
	"github.com/cekaratas/randevu/internal/storage"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config load error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("api-server starting", "env", cfg.Env, "http_port", cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := storage.NewRedis(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.StorageNamespace)
	if err != nil {
		log.Error("redis connection error", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := gw.Close(); err != nil {
			log.Warn("error closing redis", "err", err)
		}
	}()
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	scheduler := notify.NewTimerScheduler(nil, log)
	defer scheduler.Stop()

	store := appointment.New(gw, scheduler, log, appointment.Config{ReminderLead: cfg.ReminderLead})
	store.LoadFromPersistence(rootCtx)

	sweep := appointment.NewSweep(store, log)
	if err := sweep.Start(rootCtx, cfg.SweepCron); err != nil {
		log.Error("sweep start error", "err", err)
		os.Exit(1)
	}
	defer sweep.Stop()

	authSvc := auth.NewService(gw, log, cfg.SessionSecret, cfg.SessionTTL)
	settingsSvc := settings.NewService(gw, log)

	router := api.NewRouter(api.RouterConfig{
		Store:    store,
		Auth:     authSvc,
		Settings: settingsSvc,
		Storage:  gw,
		Log:      log,
		Env:      cfg.Env,
		Version:  version,
		RateRPS:  cfg.RateRPS,
		Burst:    cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}

	log.Info("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", "err", err)
	}
}
