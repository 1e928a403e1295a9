package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tamattalab/sentinal/pkg/config"
	"github.com/tamattalab/sentinal/pkg/engine"
	"github.com/tamattalab/sentinal/pkg/persona"
	"github.com/tamattalab/sentinal/pkg/report"
	"github.com/tamattalab/sentinal/pkg/server"
	"github.com/tamattalab/sentinal/pkg/session"
)

const Version = "0.1.0"

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.NewDefaultConfig()

	templates, err := persona.LoadTemplates(cfg.TemplatePath)
	if err != nil {
		log.Fatal("template corpus load failed",
			zap.String("path", cfg.TemplatePath), zap.Error(err))
	}
	responder := persona.NewResponder(templates)

	var store session.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = session.NewRedisStore(client, cfg.IdleExpire)
		log.Info("session store: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		store = session.NewMemoryStore()
		log.Info("session store: memory")
	}

	dispatcher := report.NewDispatcher(cfg.ReportURL, cfg.ReportTimeout, cfg.ReportConcurrency, log)
	if dispatcher.Enabled() {
		log.Info("report dispatch enabled", zap.String("url", cfg.ReportURL))
	} else {
		log.Warn("report dispatch disabled, no endpoint configured")
	}

	// Idle confirmed-scam sessions get one finalization report before expiry.
	finalize := func(s *session.Session) {
		dispatcher.DispatchAsync(report.Build(s, cfg.SecondsPerTurn))
	}
	sweeper := session.NewSweeper(store, cfg.SweepInterval, cfg.IdleFinalize, cfg.IdleExpire, finalize)
	sweeper.Start()

	e := engine.New(store, responder, dispatcher, cfg, log)
	srv := server.New(e, store, dispatcher, cfg, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("shutting down")
		sweeper.Stop()
		if err := srv.Shutdown(); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("sentinal gateway starting",
		zap.String("version", Version),
		zap.String("addr", cfg.ListenAddr))
	if err := srv.Listen(cfg.ListenAddr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}

	store.Close()
}
