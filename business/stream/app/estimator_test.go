package app_test

import (
	"context"
	"io"
	"math/big"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/fd1az/superboost/business/stream/app"
	"github.com/fd1az/superboost/business/stream/domain"
	"github.com/fd1az/superboost/internal/logger"
)

type recorder struct {
	mu      sync.Mutex
	updates []app.Update
}

func (r *recorder) add(u app.Update) {
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
}

func (r *recorder) count(pool string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.updates {
		if u.PoolID == pool {
			n++
		}
	}
	return n
}

func newEstimator(rec *recorder) *app.Estimator {
	fixed := time.Unix(1_700_000_010, 0)
	e := app.NewEstimator(5*time.Millisecond, logger.New(io.Discard, logger.LevelError, "test", nil),
		app.WithClock(func() time.Time { return fixed }))
	e.OnUpdate(rec.add)
	return e
}

func stream(pool string, rate int64) domain.Stream {
	return domain.Stream{PoolID: pool, FlowRate: new(big.Int).Mul(big.NewInt(rate), big.NewInt(1e18)), StartedAt: 1_700_000_000}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEstimator_EmitsPerPool(t *testing.T) {
	rec := &recorder{}
	e := newEstimator(rec)
	defer e.Stop()

	e.Sync(context.Background(), []domain.Stream{stream("a", 1), stream("b", 2), {PoolID: "idle", FlowRate: big.NewInt(0)}})

	if got := e.Running(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Running = %v", got)
	}
	waitFor(t, func() bool { return rec.count("a") >= 3 && rec.count("b") >= 3 })

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, u := range rec.updates {
		want := map[string]string{"a": "10", "b": "20"}[u.PoolID]
		if u.Streamed.String() != want {
			t.Errorf("%s streamed = %s, want %s", u.PoolID, u.Streamed, want)
		}
	}
}

func TestEstimator_SyncCancelsVanishedAndStopped(t *testing.T) {
	rec := &recorder{}
	e := newEstimator(rec)
	defer e.Stop()

	ctx := context.Background()
	e.Sync(ctx, []domain.Stream{stream("a", 1), stream("b", 1)})
	e.Sync(ctx, []domain.Stream{stream("a", 1), {PoolID: "b", FlowRate: big.NewInt(0), StartedAt: 1}})

	if got := e.Running(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("Running = %v", got)
	}

	// Sync waits for cancelled loops, so b is frozen from here on.
	before := rec.count("b")
	time.Sleep(30 * time.Millisecond)
	if after := rec.count("b"); after != before {
		t.Errorf("b kept ticking after cancellation: %d -> %d", before, after)
	}

	e.Sync(ctx, nil)
	if len(e.Running()) != 0 {
		t.Errorf("empty sync should stop every loop")
	}
}

func TestEstimator_ContextCancelEndsLoop(t *testing.T) {
	rec := &recorder{}
	e := newEstimator(rec)
	defer e.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	e.Sync(ctx, []domain.Stream{stream("a", 1)})
	waitFor(t, func() bool { return rec.count("a") > 0 })

	cancel()
	time.Sleep(20 * time.Millisecond)
	before := rec.count("a")
	time.Sleep(30 * time.Millisecond)
	if rec.count("a") != before {
		t.Errorf("loop kept running after its context was cancelled")
	}
}

func TestEstimator_StopWaits(t *testing.T) {
	rec := &recorder{}
	e := newEstimator(rec)

	e.Sync(context.Background(), []domain.Stream{stream("a", 1)})
	e.Stop()

	before := rec.count("a")
	time.Sleep(20 * time.Millisecond)
	if rec.count("a") != before || len(e.Running()) != 0 {
		t.Errorf("Stop did not halt loops")
	}
}
