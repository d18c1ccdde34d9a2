package browser

import (
	"context"
	"fmt"
	"math"
	"time"

	"listings-web/config"
	"listings-web/internal/port"
)

// retryWithBackoff runs fn until it succeeds, doubling the wait between
// attempts up to MaxBackoff.
func retryWithBackoff(ctx context.Context, cfg config.RetryConfig, logger port.LoggerPort, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying", port.Fields{"attempt": attempt + 1, "max_attempts": cfg.MaxRetries + 1})
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt < cfg.MaxRetries {
			backoff := time.Duration(float64(cfg.InitialBackoff) * math.Pow(2, float64(attempt)))
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}

			logger.Warn("attempt failed", port.Fields{"attempt": attempt + 1, "error": lastErr.Error(), "backoff": backoff.String()})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}
