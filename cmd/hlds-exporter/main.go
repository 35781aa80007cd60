// main is the entry point of the hlds-exporter application. It initializes
// the configuration, logger, metrics registry, optional GeoIP provider and
// snapshot store, binds the shared UDP socket, and starts the polling engine
// next to the HTTP server.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/woozymasta/hlds-exporter/internal/config"
	"github.com/woozymasta/hlds-exporter/internal/geoip"
	"github.com/woozymasta/hlds-exporter/internal/logger"
	"github.com/woozymasta/hlds-exporter/internal/metrics"
	"github.com/woozymasta/hlds-exporter/internal/poller"
	"github.com/woozymasta/hlds-exporter/internal/server"
	"github.com/woozymasta/hlds-exporter/internal/storage"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Msg("Starting hlds-exporter service...")

	targets, err := cfg.ResolveTargets()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid server address")
	}

	m := metrics.New()
	sinks := []poller.Sink{m}

	// Optional GeoIP provider for the snapshot store
	var geo *geoip.Provider
	if cfg.GeoIP.Path != "" {
		geo, err = geoip.Open(cfg.GeoIP.Path)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
			geo = nil
		} else {
			defer func() {
				if err := geo.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing GeoIP provider")
				}
			}()
		}
	}

	// Optional snapshot store
	var store *storage.Repository
	if cfg.Storage.Path != "" {
		store, err = storage.New(cfg.Storage.Path, geo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing database")
			}
		}()

		sinks = append(sinks, store)
	}

	// Shared UDP socket for all sessions
	bindAddr, err := cfg.ResolveBind()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid bind address")
	}
	conn, err := net.ListenUDP("udp", bindAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind UDP socket")
	}

	var limiter *rate.Limiter
	if cfg.Query.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Query.Rate), len(targets))
	}

	engine, err := poller.New(poller.Config{
		Transport: conn,
		Sink:      poller.MultiSink(sinks...),
		Limiter:   limiter,
		Targets:   targets,
		Interval:  cfg.Query.Interval,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize polling engine")
	}

	log.Info().
		Strs("servers", engine.Targets()).
		Dur("interval", cfg.Query.Interval).
		Str("bind", conn.LocalAddr().String()).
		Msg("Polling engine configured")

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Run(ctx)
	}()

	// HTTP exposition
	srvHandler := server.New(m.Handler(), store)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the engine; closing the socket unblocks the dispatcher read
	cancel()
	if err := conn.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing UDP socket")
	}
	wg.Wait()

	log.Info().Msg("Exporter exited")
}
