// Package retry содержит утилиты повторных попыток с экспоненциальной задержкой.
package retry

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Backoff рассчитывает экспоненциальные задержки с опциональным джиттером.
type Backoff struct {
	Base   time.Duration
	Cap    time.Duration
	Jitter bool

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewBackoff создает Backoff с собственным генератором случайных чисел.
func NewBackoff(base, capDur time.Duration, jitter bool) *Backoff {
	if capDur > 0 && base > capDur {
		base = capDur
	}
	return &Backoff{
		Base:   base,
		Cap:    capDur,
		Jitter: jitter,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait возвращает задержку перед повтором attempt (с нуля).
func (b *Backoff) Wait(attempt int) time.Duration {
	if b == nil || b.Base <= 0 || attempt < 0 {
		return 0
	}

	wait := b.Base
	for i := 0; i < attempt; i++ {
		if wait > time.Duration(math.MaxInt64)/2 {
			wait = time.Duration(math.MaxInt64)
			break
		}
		wait *= 2
		if b.Cap > 0 && wait >= b.Cap {
			break
		}
	}
	if b.Cap > 0 && wait > b.Cap {
		wait = b.Cap
	}
	if !b.Jitter {
		return wait
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Duration(b.rnd.Int63n(int64(wait) + 1))
}

// Policy задает правила повторов.
type Policy struct {
	MaxRetries  int
	Backoff     *Backoff
	ShouldRetry func(err error) bool
}

// Do выполняет fn, повторяя её по правилам policy.
// onRetry вызывается перед каждым повтором с номером попытки (с единицы).
func Do(ctx context.Context, policy Policy, fn func() error, onRetry func(err error, attempt int, wait time.Duration)) error {
	var lastErr error
	for attempt := 0; attempt <= max(policy.MaxRetries, 0); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if policy.ShouldRetry != nil && !policy.ShouldRetry(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxRetries {
			break
		}

		wait := policy.Backoff.Wait(attempt)
		if onRetry != nil {
			onRetry(lastErr, attempt+1, wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}
