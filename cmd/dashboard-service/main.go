package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"traderflow/internal/dashboard/config"
	delivery "traderflow/internal/dashboard/delivery/http"
	_ "traderflow/internal/dashboard/docs"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/dashboard/service"
	"traderflow/pkg/logger"
	"traderflow/pkg/redis"
	"traderflow/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the dashboard service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Dashboard Service", logger.Field("name", cfg.App.Name), logger.StringField("market_api", cfg.MarketAPI.BaseURL))

	// Initialize repositories
	marketRepo := repository.NewMarketAPIRepository(cfg, appLogger)
	preferenceRepo, closePreferences, err := newPreferenceRepository(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize preference store", logger.ErrorField(err))
	}
	defer closePreferences()

	// Initialize services
	homeSvc := service.NewHomeService(marketRepo, appLogger)
	preferenceSvc := service.NewPreferenceService(preferenceRepo, appLogger)
	views := service.NewViewRegistry(cfg.View.IdleTTL, func() *service.CompanyView {
		return service.NewCompanyView(ctx, marketRepo, appLogger)
	}, appLogger)
	defer views.Close()

	var monitor *service.UpstreamMonitor
	if cfg.Monitor.Enabled {
		monitor, err = service.NewUpstreamMonitor(marketRepo, appLogger, cfg.Monitor.Schedule, cfg.Monitor.Timeout, cfg.View.TimeZone)
		if err != nil {
			appLogger.Fatal("Invalid monitor schedule", logger.ErrorField(err))
		}
		if cfg.Monitor.Telegram.BotToken != "" {
			notifier, err := telegram.NewClient(cfg.Monitor.Telegram.BotToken, cfg.Monitor.Telegram.ChatID)
			if err != nil {
				appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
			}
			monitor.NotifyWith(notifier, cfg.MarketAPI.BaseURL)
		}
		monitor.Start()
		defer monitor.Stop()
	}

	// Initialize Echo server
	renderer, err := delivery.NewTemplateRenderer()
	if err != nil {
		appLogger.Fatal("Failed to parse templates", logger.ErrorField(err))
	}
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	delivery.RegisterMiddleware(e, preferenceSvc, appLogger)

	// Initialize handlers and routes
	pages := e.Group("")
	apiV1 := e.Group("/api/v1")
	companiesGroup := apiV1.Group("/companies")

	homeHandler := delivery.NewHomeHandler(homeSvc, appLogger)
	homeHandler.RegisterRoutes(pages)
	homeHandler.RegisterAPIRoutes(companiesGroup)

	companyHandler := delivery.NewCompanyHandler(views, cfg.View.RenderBudget, cfg.View.RefreshInterval, appLogger)
	companyHandler.RegisterRoutes(pages)
	companyHandler.RegisterAPIRoutes(companiesGroup)

	preferenceHandler := delivery.NewPreferenceHandler(preferenceSvc, appLogger)
	preferenceHandler.RegisterRoutes(e.Group("/preferences"))

	healthHandler := delivery.NewHealthHandler(monitor, views)
	healthHandler.RegisterRoutes(pages)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// newPreferenceRepository selects the preference store named by the configuration.
func newPreferenceRepository(cfg *config.Config) (repository.PreferenceRepository, func(), error) {
	if cfg.Preference.Store != "redis" {
		return repository.NewMemoryPreferenceRepository(cfg.Preference.TTL), func() {}, nil
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRedisPreferenceRepository(redisClient, cfg.Preference.TTL), func() { _ = redisClient.Close() }, nil
}

// @title TraderFlow Dashboard API
// @version 1.0
// @description Company list, company view and display preference endpoints of the TraderFlow dashboard.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard-service",
		Short: "TraderFlow stock dashboard",
	}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-dashboard.yaml", "Path to the configuration file")
	snapshotCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-dashboard.yaml", "Path to the configuration file")
	snapshotCmd.Flags().StringVar(&snapshotTab, "tab", "history", "Tab to show: history or indicators")
	snapshotCmd.Flags().StringVar(&snapshotIndicator, "indicator", "rsi", "Indicator kind for the indicators tab")
	snapshotCmd.Flags().StringVar(&snapshotStart, "start", "", "Start date (YYYY-MM-DD)")
	snapshotCmd.Flags().StringVar(&snapshotEnd, "end", "", "End date (YYYY-MM-DD)")
	snapshotCmd.Flags().DurationVar(&snapshotWait, "wait", 0, "How long to wait for pending fetches (defaults to the market API timeout)")

	rootCmd.AddCommand(serveCmd, snapshotCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing dashboard-service CLI: %s\n", err)
		os.Exit(1)
	}
}
