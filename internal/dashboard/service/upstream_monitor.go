package service

import (
	"context"
	"sync"
	"time"

	"traderflow/internal/dashboard/dto"
	"traderflow/internal/dashboard/repository"
	"traderflow/pkg/logger"
	"traderflow/pkg/telegram"
	"traderflow/pkg/utils"

	"github.com/robfig/cron/v3"
)

// UpstreamMonitor probes the market API on a cron schedule.
type UpstreamMonitor struct {
	repo     repository.MarketRepository
	logger   *logger.Logger
	cron     *cron.Cron
	timeout  time.Duration
	timeZone string

	// probeMu keeps probes from overlapping, so alerts follow probe order.
	probeMu sync.Mutex

	mu       sync.RWMutex
	status   dto.UpstreamStatus
	notifier telegram.Notifier
	target   string
}

// NewUpstreamMonitor creates a monitor for schedule (standard cron or "@every 30s").
func NewUpstreamMonitor(repo repository.MarketRepository, log *logger.Logger, schedule string, timeout time.Duration, timeZone string) (*UpstreamMonitor, error) {
	m := &UpstreamMonitor{
		repo:     repo,
		logger:   log,
		cron:     cron.New(),
		timeout:  timeout,
		timeZone: timeZone,
	}
	if _, err := m.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		m.Check(ctx)
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// NotifyWith sends an alert through n whenever the market API at target
// becomes unreachable or recovers.
func (m *UpstreamMonitor) NotifyWith(n telegram.Notifier, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
	m.target = target
}

// Start runs an immediate probe and then follows the schedule.
func (m *UpstreamMonitor) Start() {
	utils.GoSafe(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		m.Check(ctx)
	})
	m.cron.Start()
	m.logger.Info("Upstream monitor started")
}

// Stop halts the schedule and waits for a running probe to finish.
func (m *UpstreamMonitor) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info("Upstream monitor stopped")
}

// Check probes the market API once and records the outcome. A Check issued
// while another is running waits for it and then probes again.
func (m *UpstreamMonitor) Check(ctx context.Context) dto.UpstreamStatus {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()

	start := time.Now()
	err := m.repo.Ping(ctx)
	status := dto.UpstreamStatus{
		Reachable: err == nil,
		CheckedAt: utils.TimeNowIn(m.timeZone),
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
		m.logger.WarnContext(ctx, "Market API probe failed", logger.ErrorField(err))
	}

	m.mu.Lock()
	notifier, target := m.notifier, m.target
	alert := notifier != nil && changed(m.status, status)
	m.status = status
	m.mu.Unlock()

	if alert {
		text := telegram.FormatUpstreamAlert(target, status.Reachable, status.Error, status.CheckedAt)
		if err := notifier.Notify(ctx, text); err != nil {
			m.logger.ErrorContext(ctx, "Failed to send upstream alert", logger.ErrorField(err))
		}
	}
	return status
}

// changed reports a reachability transition. A first probe only counts when it fails.
func changed(prev, next dto.UpstreamStatus) bool {
	if prev.CheckedAt.IsZero() {
		return !next.Reachable
	}
	return prev.Reachable != next.Reachable
}

// Status returns the latest probe outcome. CheckedAt is zero before the first probe.
func (m *UpstreamMonitor) Status() dto.UpstreamStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
