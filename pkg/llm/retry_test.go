package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	coreerrors "github.com/easyops/medcontext-go/pkg/core/errors"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return coreerrors.ErrRateLimited
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return coreerrors.ErrInvalidAPIKey
	})

	if !errors.Is(err, coreerrors.ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("non-retryable error must not be retried, got %d attempts", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := retry(context.Background(), 2, time.Millisecond, func() error {
		attempts++
		return coreerrors.ErrRateLimited
	})

	if !errors.Is(err, coreerrors.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts (initial + 2 retries), got %d", attempts)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, 3, time.Millisecond, func() error {
		return coreerrors.ErrRateLimited
	})

	if !errors.Is(err, coreerrors.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
}

func TestCalculateBackoffGrowsAndCaps(t *testing.T) {
	base := 100 * time.Millisecond

	first := calculateBackoff(0, base)
	second := calculateBackoff(1, base)
	if second <= first {
		t.Errorf("backoff must grow: %v then %v", first, second)
	}

	huge := calculateBackoff(20, base)
	if huge > 30*time.Second {
		t.Errorf("backoff must cap at 30s, got %v", huge)
	}
}
