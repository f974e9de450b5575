package oneof

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func slowFalse(d time.Duration) Branch {
	return func(ctx context.Context) (bool, error) {
		select {
		case <-time.After(d):
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

func TestFirst_FastTrueWinsWithoutWaiting(t *testing.T) {
	fastTrue := func(ctx context.Context) (bool, error) {
		time.Sleep(5 * time.Millisecond)
		return true, nil
	}

	start := time.Now()
	got := First(context.Background(), slowFalse(2*time.Second), fastTrue, slowFalse(2*time.Second))
	elapsed := time.Since(start)

	if !got {
		t.Fatal("expected true")
	}
	if elapsed > time.Second {
		t.Fatalf("winner did not short-circuit, took %v", elapsed)
	}
}

func TestFirst_AllFalseSettlesAfterLast(t *testing.T) {
	var settledCount atomic.Int32
	falseBranch := func(ctx context.Context) (bool, error) {
		settledCount.Add(1)
		return false, nil
	}

	if got := First(context.Background(), falseBranch, falseBranch, falseBranch); got {
		t.Fatal("expected false")
	}
	if n := settledCount.Load(); n != 3 {
		t.Fatalf("expected all 3 branches settled, got %d", n)
	}
}

func TestFirst_ErrorCountsAsFalse(t *testing.T) {
	failing := func(ctx context.Context) (bool, error) {
		return true, errors.New("store unavailable")
	}
	truthy := func(ctx context.Context) (bool, error) {
		return true, nil
	}

	if got := First(context.Background(), failing); got {
		t.Fatal("errored branch must settle false")
	}
	if got := First(context.Background(), failing, truthy); !got {
		t.Fatal("healthy branch must still win")
	}
}

func TestFirst_WinnerCancelsLosers(t *testing.T) {
	cancelled := make(chan struct{})
	loser := func(ctx context.Context) (bool, error) {
		<-ctx.Done()
		close(cancelled)
		return false, ctx.Err()
	}
	winner := func(ctx context.Context) (bool, error) {
		return true, nil
	}

	if got := First(context.Background(), loser, winner); !got {
		t.Fatal("expected true")
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("losing branch was not cancelled")
	}
}

func TestFirst_NoBranches(t *testing.T) {
	if First(context.Background()) {
		t.Fatal("empty race must be false")
	}
}
