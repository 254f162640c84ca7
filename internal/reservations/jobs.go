package reservations

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"studyhall/pkg/logger"
)

// JobProcessor runs the periodic no-show, overstay and monthly reset scans
type JobProcessor struct {
	service Service
	config  *JobConfig
	logger  *logger.Logger
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	ScanInterval        time.Duration
	MonthlyResetEnabled bool
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		ScanInterval:        1 * time.Minute,
		MonthlyResetEnabled: true,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	if config.ScanInterval <= 0 {
		config.ScanInterval = DefaultJobConfig().ScanInterval
	}

	return &JobProcessor{
		service: service,
		config:  config,
		logger:  logger.GetDefault(),
		done:    make(chan struct{}),
	}
}

// Start launches the scan loop. It returns immediately.
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.wg.Add(1)
	go jp.run(ctx)
	jp.logger.Info("Reservation background jobs started", slog.String("interval", jp.config.ScanInterval.String()))
}

// Stop ends the scan loop and waits for an in-flight scan to finish
func (jp *JobProcessor) Stop() {
	jp.once.Do(func() { close(jp.done) })
	jp.wg.Wait()
	jp.logger.Info("Reservation background jobs stopped")
}

func (jp *JobProcessor) run(ctx context.Context) {
	defer jp.wg.Done()

	ticker := time.NewTicker(jp.config.ScanInterval)
	defer ticker.Stop()

	// Run immediately on startup
	jp.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			jp.RunOnce(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs one pass of every job
func (jp *JobProcessor) RunOnce(ctx context.Context) {
	if jp.config.MonthlyResetEnabled {
		if _, err := jp.service.ResetMonthlyIfDue(ctx); err != nil {
			jp.logger.WithError(err).ErrorContext(ctx, "Monthly reset failed")
		}
	}

	if n, err := jp.service.ProcessNoShows(ctx); err != nil {
		jp.logger.WithError(err).ErrorContext(ctx, "No-show scan failed")
	} else if n > 0 {
		jp.logger.InfoContext(ctx, "No-shows reported", slog.Int("count", n))
	}

	if n, err := jp.service.ProcessOverstays(ctx); err != nil {
		jp.logger.WithError(err).ErrorContext(ctx, "Overstay scan failed")
	} else if n > 0 {
		jp.logger.InfoContext(ctx, "Overstays reported", slog.Int("count", n))
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"scan_interval":         jp.config.ScanInterval.String(),
		"monthly_reset_enabled": jp.config.MonthlyResetEnabled,
		"status":                "running",
	}
}
