// Package main provides the WhatsApp bot server entry point.
package main

import (
	"context"
	"time"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/metrics"
)

// refreshCatalog periodically reloads the course catalog so edits to the
// published JSON reach the bot without a restart. A zero interval
// disables the job.
func refreshCatalog(ctx context.Context, catalogs *catalog.Store, m *metrics.Metrics, log *logger.Logger, interval time.Duration) {
	if interval <= 0 {
		log.Info("Catalog refresh disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performCatalogRefresh(ctx, catalogs, m, log)
		}
	}
}

// performCatalogRefresh executes one reload and records the result.
func performCatalogRefresh(ctx context.Context, catalogs *catalog.Store, m *metrics.Metrics, log *logger.Logger) {
	start := time.Now()

	if err := catalogs.Reload(ctx); err != nil {
		// The previous snapshot stays active, so this is not fatal.
		log.WithError(err).Error("Catalog refresh failed, keeping previous snapshot")
	} else {
		log.WithFields(map[string]any{
			"courses":     catalogs.Current().Len(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Catalog refreshed")
	}

	m.SetCatalogSize(catalogs.Current().Len())
}
