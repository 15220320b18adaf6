package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/nshrestha/trailbook/internal/metrics"
)

// ResetTokenStore clears expired password-reset tokens.
type ResetTokenStore interface {
	CleanupExpiredResetTokens(ctx context.Context) (int64, error)
}

// CleanupManager periodically clears expired password-reset tokens. The
// lookup already filters on expiry, so this is hygiene, not correctness:
// it keeps stale token hashes from lingering in the users table.
type CleanupManager struct {
	store    ResetTokenStore
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewCleanupManager(store ResetTokenStore, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		store:    store,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsCleared, err := cm.store.CleanupExpiredResetTokens(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to clean up expired reset tokens", slog.Any("error", err))
		return
	}

	if rowsCleared > 0 {
		metrics.ResetTokensCleanedTotal.Add(float64(rowsCleared))
		cm.logger.Info("expired reset token cleanup completed", slog.Int64("rows_cleared", rowsCleared))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
