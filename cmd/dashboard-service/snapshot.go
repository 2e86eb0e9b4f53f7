package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"traderflow/internal/dashboard/config"
	"traderflow/internal/dashboard/delivery/cli"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/dashboard/service"
	"traderflow/internal/entity"
	"traderflow/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	snapshotTab       string
	snapshotIndicator string
	snapshotStart     string
	snapshotEnd       string
	snapshotWait      time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [company-id]",
	Short: "Prints the company list, or one company's view, to the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger, err := logger.New("warn", cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	wait := snapshotWait
	if wait <= 0 {
		wait = cfg.MarketAPI.Timeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), wait)
	defer cancel()

	marketRepo := repository.NewMarketAPIRepository(cfg, appLogger)
	if len(args) == 0 {
		state := service.NewHomeService(marketRepo, appLogger).Load(ctx)
		fmt.Fprint(os.Stdout, cli.RenderHome(state))
		return nil
	}

	kind, err := entity.ParseIndicatorKind(snapshotIndicator)
	if err != nil {
		return err
	}
	dateRange, err := entity.ParseDateRange(snapshotStart, snapshotEnd)
	if err != nil {
		return err
	}
	tab := service.ParseTab(snapshotTab)

	view := service.NewCompanyView(ctx, marketRepo, appLogger)
	defer view.Close()
	view.Mount(strings.ToUpper(args[0]))
	view.Apply(service.Interaction{Tab: &tab, Indicator: &kind, Range: &dateRange})
	if err := view.Wait(ctx); err != nil {
		appLogger.Warn("Snapshot taken with pending fetches", logger.ErrorField(err))
	}

	fmt.Fprint(os.Stdout, cli.RenderCompany(view.Snapshot()))
	return nil
}
