package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/energy-mock/internal/api"
	"github.com/ougirez/energy-mock/internal/config"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
	"github.com/ougirez/energy-mock/internal/pkg/metrics"
	"github.com/ougirez/energy-mock/internal/pkg/store"
	"github.com/ougirez/energy-mock/internal/pkg/store/xpgx"
	"github.com/ougirez/energy-mock/internal/service/energy"
	"github.com/ougirez/energy-mock/internal/service/energy/csvsource"
	"github.com/ougirez/energy-mock/internal/service/energy/storesource"
	"github.com/ougirez/energy-mock/internal/service/house"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Bind(viper.GetViper()); err != nil {
		return err
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		return fmt.Errorf("logger.Init: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locator, err := house.NewLocator(cfg.HouseEncoding, cfg.HousePrefix, cfg.HouseMarker)
	if err != nil {
		return err
	}

	var (
		source energy.Source
		opts   = energy.Options{ServiceProvider: cfg.ServiceProvider}
	)
	if cfg.UseDatabase {
		if err := cfg.ValidateDB(); err != nil {
			return err
		}

		pool, err := xpgx.Connect(ctx, cfg.DB, 30*time.Second)
		if err != nil {
			return fmt.Errorf("xpgx.Connect: %w", err)
		}
		defer pool.Close()

		source = storesource.NewSource(store.NewStore(pool))
		opts.EmptyAsNotFound = cfg.EmptyAsNotFound
		logger.Infof(ctx, "database mode enabled (%s)", cfg.DB.Host)
	} else {
		source = csvsource.NewSource(cfg.DataDir)
		logger.Infof(ctx, "CSV mode enabled (data dir: %s)", cfg.DataDir)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("metrics.Register: %w", err)
	}

	svc := energy.NewService(locator, source, opts)
	apiSvc, err := api.NewAPIService(svc, reg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof(ctx, "mock API server listening on %s, endpoint %s, house encoding %s", addr, api.EstimatedDataPath, locator.Encoding())

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return apiSvc.Serve(addr)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Infof(shutdownCtx, "shutting down")
		return apiSvc.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
