package util

import (
	"context"
	"errors"
	"time"

	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrRetriesExhausted is returned once every attempt has failed.
var ErrRetriesExhausted = errors.New("all attempts failed")

// RetryWithExponentialBackoff calls fn until it succeeds, maxRetries attempts
// are spent, or ctx is done. The delay doubles after every failure.
func RetryWithExponentialBackoff(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func() error) error {
	limiter := rate.NewLimiter(rate.Every(baseDelay), 1)
	retries := 0

	for retries < maxRetries {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		if err := fn(); err != nil {
			logger.Error("Failed attempt. ", zap.Int("Try", retries+1), zap.Error(err))
			retries++
			limiter.SetLimit(rate.Every(baseDelay * time.Duration(1<<retries)))
		} else {
			return nil
		}
	}

	return ErrRetriesExhausted
}
