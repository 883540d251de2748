package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/panchang/core/internal/adapters/repository"
	"github.com/panchang/core/internal/application/services"
	"github.com/panchang/core/internal/client"
	"github.com/panchang/core/internal/infrastructure/config"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/infrastructure/server"
	"github.com/panchang/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Panchang API server",
		Long:  "Start the Panchang API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <year>",
		Short: "Generate and persist a year's calendar",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 {
				log.Fatalf("Invalid year: %s", args[0])
			}
			runGenerate(year)
		},
	}
}

// NewCacheCommand creates the cache management command
func NewCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Client cache commands",
		Long:  "Warm, inspect and clear the local client cache",
	}

	warmCmd := &cobra.Command{
		Use:   "warm",
		Short: "Fetch calendars and notes into the local cache",
		Run: func(cmd *cobra.Command, args []string) {
			serverURL, _ := cmd.Flags().GetString("server")
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = time.Now().Year()
			}
			runCacheWarm(serverURL, year)
		},
	}
	warmCmd.Flags().String("server", "http://localhost:3000", "Server base URL")
	warmCmd.Flags().Int("year", 0, "Year to cache (defaults to current year)")
	cacheCmd.AddCommand(warmCmd)

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show cached entries and their age",
		Run: func(cmd *cobra.Command, args []string) {
			runCacheInfo()
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached entry",
		Run: func(cmd *cobra.Command, args []string) {
			runCacheClear()
		},
	})

	return cacheCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Panchang version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Panchang Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	replica := openReplica(cfg, appLogger)
	if replica != nil {
		defer replica.Close()
	}

	srv, err := server.New(cfg, replica, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting Panchang API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"data_dir", cfg.Storage.DataDir,
		"replica_enabled", cfg.Replica.Enabled,
	)

	go func() {
		if err := srv.Start(cfg.Server.Address()); err != nil {
			appLogger.Infow("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Forced shutdown", "error", err)
	}
}

func runGenerate(year int) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	replica := openReplica(cfg, appLogger)
	if replica != nil {
		defer replica.Close()
	}

	calRepo, err := repository.NewCalendarRepository(cfg.Storage.DataDir, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to open calendar store", "error", err)
	}
	calendarService := services.NewCalendarService(calRepo, replica, appLogger)

	days, err := calendarService.Generate(context.Background(), year)
	if err != nil {
		appLogger.Fatalw("Generation failed", "year", year, "error", err)
	}
	fmt.Printf("Generated %d days for %d\n", len(days), year)
}

func runCacheWarm(serverURL string, year int) {
	cfg, appLogger, cache := openCache()
	defer appLogger.Sync()
	defer cache.Close()

	cli := client.NewClient(serverURL, cache, cfg.Cache.MaxAgeHours, appLogger)
	if err := cli.WarmCache(context.Background(), year); err != nil {
		appLogger.Fatalw("Cache warm failed", "error", err)
	}
	fmt.Println("Cache warmed")
}

func runCacheInfo() {
	_, appLogger, cache := openCache()
	defer appLogger.Sync()
	defer cache.Close()

	entries, err := cache.Info()
	if err != nil {
		appLogger.Fatalw("Failed to read cache", "error", err)
	}
	if len(entries) == 0 {
		fmt.Println("Cache is empty")
		return
	}
	for _, e := range entries {
		fmt.Printf("%-20s items=%-5d age=%s\n", e.Key, e.Count, e.Age)
	}
}

func runCacheClear() {
	_, appLogger, cache := openCache()
	defer appLogger.Sync()
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		appLogger.Fatalw("Failed to clear cache", "error", err)
	}
	fmt.Println("Cache cleared")
}

func openCache() (*config.Config, *logger.Logger, *client.Cache) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cache, err := client.OpenCache(cfg.Cache.Dir, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to open cache", "error", err)
	}
	return cfg, appLogger, cache
}

func openReplica(cfg *config.Config, appLogger *logger.Logger) ports.ReplicaStore {
	if !cfg.Replica.Enabled {
		return nil
	}

	replica, err := repository.OpenReplica(cfg.Replica.Path, cfg.Replica.SyncWrites, appLogger)
	if err != nil {
		// The replica is best-effort; the server runs without it.
		appLogger.WithError(err).Errorw("Failed to open replica, continuing without it")
		return nil
	}
	return replica
}
