package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// RetryPolicy bounds retried transactions.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is 3 attempts, exponential from 100ms, capped at 3s.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:        3,
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     3 * time.Second,
}

// retryable is implemented by errors that know whether repeating the
// operation can change the outcome. Domain errors report false.
type retryable interface {
	Retryable() bool
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	retries := p.Attempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Retry runs op until it succeeds, fails with a non-retryable error, or the
// policy is exhausted. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, op func() error) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		var r retryable
		if errors.As(err, &r) && !r.Retryable() {
			return backoff.Permanent(err)
		}
		if attempt < policy.Attempts {
			slog.Warn("transaction attempt failed, retrying", "attempt", attempt, "error", err)
		}
		return err
	}, policy.backOff(ctx))
}

// WithRetryTx executes fn inside a transaction and retries the whole
// transaction under DefaultRetryPolicy. An error from fn rolls back.
func WithRetryTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return Retry(ctx, DefaultRetryPolicy, func() error {
		return db.WithContext(ctx).Transaction(fn)
	})
}
