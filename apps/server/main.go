package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"belote-lite/apps/server/internal/api"
	"belote-lite/apps/server/internal/auth"
	"belote-lite/apps/server/internal/config"
	"belote-lite/apps/server/internal/gateway"
	"belote-lite/apps/server/internal/ledger"
	"belote-lite/apps/server/internal/lobby"
	"belote-lite/apps/server/internal/notify"
	"belote-lite/apps/server/internal/table"
	"belote-lite/belote/npc"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}

	ledgerService, ledgerMode, err := ledger.NewService(ledger.Options{
		Mode:        cfg.Ledger.Mode,
		Path:        cfg.Ledger.Path,
		DSN:         cfg.Ledger.DSN,
		RecentLimit: cfg.Ledger.RecentLimit,
	})
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	sink := buildSink(cfg)
	defer sink.Close()

	gate, err := auth.NewGate(cfg.Table.Passphrase, cfg.Table.PassphraseHash)
	if err != nil {
		log.Fatalf("[Server] Invalid table passphrase hash: %v", err)
	}

	registry := npc.NewRegistry()
	if cfg.Table.PersonasFile != "" {
		if err := registry.LoadFromFile(cfg.Table.PersonasFile); err != nil {
			log.Fatalf("[Server] Failed to load personas: %v", err)
		}
	}

	lby := lobby.New(table.Config{
		WinningThreshold:      cfg.Table.WinningThreshold,
		AllowDealerPassRound2: cfg.Table.AllowDealerPassRound2,
		NoObservers:           !cfg.Table.AllowObservers,
		TrickPause:            cfg.Table.TrickPause,
	}, ledgerService, sink, registry)
	defer lby.Close()
	gw := gateway.New(lby, gate)

	gin.SetMode(cfg.Server.Mode)
	router := api.SetupRouter(&api.Server{
		Lobby:    lby,
		Gateway:  gw,
		Ledger:   ledgerService,
		Gate:     gate,
		Registry: registry,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reapIdleTables(ctx, lby, cfg.Server.IdleTTL)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[Server] Ledger mode: %s", ledgerMode)
	log.Printf("[Server] Passphrase gate: %v", !gate.Open())
	log.Printf("[Server] Personas: %d", registry.Count())
	log.Printf("[Server] Starting server on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
	log.Printf("[Server] Stopped")
}

// buildSink wires the optional NATS and Redis fan-out. A sink that cannot
// connect is logged and skipped.
func buildSink(cfg *config.Config) notify.Sink {
	var sinks []notify.Sink
	if cfg.NATS.URL != "" {
		s, err := notify.NewNATSSink(notify.NATSOptions{
			URL:           cfg.NATS.URL,
			Subject:       cfg.NATS.Subject,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		})
		if err != nil {
			log.Printf("[Server] NATS sink disabled: %v", err)
		} else {
			log.Printf("[Server] Publishing table events to NATS %s", cfg.NATS.URL)
			sinks = append(sinks, s)
		}
	}
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s, err := notify.NewRedisSink(ctx, notify.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			PoolSize:  cfg.Redis.PoolSize,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Redis.TTL,
		})
		if err != nil {
			log.Printf("[Server] Redis sink disabled: %v", err)
		} else {
			log.Printf("[Server] Caching scoreboards in Redis %s", cfg.Redis.Addr)
			sinks = append(sinks, s)
		}
	}
	return notify.Combine(sinks...)
}

func reapIdleTables(ctx context.Context, lby *lobby.Lobby, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := lby.ReapIdle(ttl); n > 0 {
				log.Printf("[Server] Reaped %d idle tables", n)
			}
		}
	}
}
