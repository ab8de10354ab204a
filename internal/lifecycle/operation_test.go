package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeoutMsg = "La búsqueda está tardando demasiado."

type fakeTimer struct {
	mu      sync.Mutex
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock は Fire を呼ぶまでタイマーを発火しない
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// Fire は停止も発火もしていないタイマーをすべて発火し、発火した数を返す
func (c *fakeClock) Fire() int {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()

	fired := 0
	for _, t := range timers {
		t.mu.Lock()
		run := !t.stopped && !t.fired
		t.fired = t.fired || run
		t.mu.Unlock()
		if run {
			t.f()
			fired++
		}
	}
	return fired
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.snaps {
		if s.Error != "" {
			out = append(out, s.Error)
		}
	}
	return out
}

func newTestOperation(clock Clock, rec *recorder) *Operation[string] {
	opts := []Option{
		WithTimeout(45*time.Second, timeoutMsg),
		WithClock(clock),
		WithErrorMessage(func(err error) string { return "No se pudo obtener la planificación." }),
	}
	if rec != nil {
		opts = append(opts, WithListener(rec.record))
	}
	return New[string]("test", opts...)
}

func TestOperation_Success(t *testing.T) {
	clock := &fakeClock{}
	op := newTestOperation(clock, nil)

	assert.Equal(t, StatusIdle, op.Snapshot().Status)

	id := op.Start(context.Background(), func(ctx context.Context) (string, error) {
		return "plan", nil
	})
	assert.NotEmpty(t, id)
	op.Wait()

	snap := op.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.Token)

	res, ok := op.Result()
	assert.True(t, ok)
	assert.Equal(t, "plan", res)

	// 完了後はウォッチドッグが発火しない
	assert.Equal(t, 0, clock.Fire())
	assert.Equal(t, StatusSuccess, op.Snapshot().Status)
}

func TestOperation_NewSearchSupersedesPrevious(t *testing.T) {
	t.Run("古い操作が後から成功しても状態を変更しない", func(t *testing.T) {
		clock := &fakeClock{}
		rec := &recorder{}
		op := newTestOperation(clock, rec)

		releaseA := make(chan struct{})
		causeA := make(chan CancelReason, 1)
		op.Start(context.Background(), func(ctx context.Context) (string, error) {
			<-ctx.Done()
			causeA <- CauseOf(ctx)
			<-releaseA
			return "A", nil
		})

		releaseB := make(chan struct{})
		op.Start(context.Background(), func(ctx context.Context) (string, error) {
			<-releaseB
			return "B", nil
		})

		assert.Equal(t, ReasonNewSearch, <-causeA)
		assert.Equal(t, ReasonNewSearch, op.Snapshot().LastReason)

		close(releaseB)
		require.Eventually(t, func() bool {
			return op.Snapshot().Status == StatusSuccess
		}, time.Second, 5*time.Millisecond)

		close(releaseA)
		op.Wait()

		res, ok := op.Result()
		assert.True(t, ok)
		assert.Equal(t, "B", res)
		assert.Empty(t, rec.errors())
	})

	t.Run("古い操作の失敗はエラーを表示しない", func(t *testing.T) {
		clock := &fakeClock{}
		rec := &recorder{}
		op := newTestOperation(clock, rec)

		op.Start(context.Background(), func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", errors.New("network error")
		})

		releaseB := make(chan struct{})
		op.Start(context.Background(), func(ctx context.Context) (string, error) {
			<-releaseB
			return "", errors.New("boom")
		})

		close(releaseB)
		op.Wait()

		// Bの失敗だけが観測される
		assert.Equal(t, []string{"No se pudo obtener la planificación."}, rec.errors())
		assert.Equal(t, StatusError, op.Snapshot().Status)
	})

	t.Run("古い操作のウォッチドッグは発火しない", func(t *testing.T) {
		clock := &fakeClock{}
		op := newTestOperation(clock, nil)

		release := make(chan struct{})
		op.Start(context.Background(), func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		op.Start(context.Background(), func(ctx context.Context) (string, error) {
			<-release
			return "B", nil
		})

		// Aのタイマーは停止済みで、Bのタイマーだけが発火する
		assert.Equal(t, 1, clock.Fire())
		close(release)
		op.Wait()

		assert.Equal(t, timeoutMsg, op.Snapshot().Error)
	})
}

func TestOperation_Cancel(t *testing.T) {
	clock := &fakeClock{}
	op := newTestOperation(clock, nil)

	release := make(chan struct{})
	cause := make(chan CancelReason, 1)
	op.Start(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		cause <- CauseOf(ctx)
		<-release
		return "late", nil
	})
	require.True(t, op.Snapshot().Loading)

	assert.True(t, op.Cancel(ReasonUserCancel))

	// 処理の終了を待たずに即座に反映される
	snap := op.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, ReasonUserCancel, snap.LastReason)
	assert.Equal(t, ReasonUserCancel, <-cause)

	close(release)
	op.Wait()

	_, ok := op.Result()
	assert.False(t, ok, "キャンセル後の結果は破棄される")
	assert.Equal(t, 0, clock.Fire())

	t.Run("実行中の操作がなくてもエラーはクリアされる", func(t *testing.T) {
		op.Reject("error")
		assert.False(t, op.Cancel(ReasonUserCancel))
		assert.Empty(t, op.Snapshot().Error)
	})
}

func TestOperation_Timeout(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	op := newTestOperation(clock, rec)

	cause := make(chan CancelReason, 1)
	op.Start(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		cause <- CauseOf(ctx)
		return "", ctx.Err()
	})

	assert.Equal(t, 1, clock.Fire())
	assert.Equal(t, ReasonTimeout, <-cause)
	op.Wait()

	snap := op.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, timeoutMsg, snap.Error)
	assert.False(t, snap.Loading)
	assert.Equal(t, ReasonTimeout, snap.LastReason)

	// タイムアウトのエラーは一度だけ
	assert.Equal(t, 0, clock.Fire())
	assert.Equal(t, []string{timeoutMsg}, rec.errors())
}

func TestOperation_TimeoutCallbackAfterCompletionIsIgnored(t *testing.T) {
	clock := &fakeClock{}
	op := newTestOperation(clock, nil)

	op.Start(context.Background(), func(ctx context.Context) (string, error) {
		return "plan", nil
	})
	op.Wait()

	// Stop と競合して遅れて届いたコールバックを再現する
	require.Len(t, clock.timers, 1)
	clock.timers[0].f()

	snap := op.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Empty(t, snap.Error)
}

func TestOperation_Failure(t *testing.T) {
	op := New[int]("ideas", WithErrorMessage(func(err error) string {
		if errors.Is(err, context.DeadlineExceeded) {
			return "timeout"
		}
		return "generic"
	}))

	op.Start(context.Background(), func(ctx context.Context) (int, error) {
		return 0, errors.New("500")
	})
	op.Wait()
	assert.Equal(t, "generic", op.Snapshot().Error)

	op.Start(context.Background(), func(ctx context.Context) (int, error) {
		return 0, context.DeadlineExceeded
	})
	op.Wait()
	assert.Equal(t, "timeout", op.Snapshot().Error)

	t.Run("親コンテキストのキャンセルはエラー表示しない", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		op.Start(parent, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
		cancel()
		op.Wait()

		snap := op.Snapshot()
		assert.Empty(t, snap.Error)
		assert.Equal(t, StatusIdle, snap.Status)
	})
}

func TestOperation_RejectAndClear(t *testing.T) {
	op := newTestOperation(&fakeClock{}, nil)

	op.Reject("Por favor, introduce un origen y un destino.")
	snap := op.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Empty(t, snap.Token)

	op.Start(context.Background(), func(ctx context.Context) (string, error) {
		return "plan", nil
	})
	assert.Empty(t, op.Snapshot().Error, "新しい操作の開始で前のエラーはクリアされる")
	op.Wait()
	assert.Equal(t, StatusSuccess, op.Snapshot().Status)

	op.Clear()
	snap = op.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.False(t, snap.HasResult)
	_, ok := op.Result()
	assert.False(t, ok)
}

func TestOperation_ClearCancelsInFlight(t *testing.T) {
	op := newTestOperation(&fakeClock{}, nil)

	cause := make(chan CancelReason, 1)
	op.Start(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		cause <- CauseOf(ctx)
		return "late", nil
	})

	op.Clear()
	assert.Equal(t, ReasonClear, <-cause)
	op.Wait()

	assert.Equal(t, StatusIdle, op.Snapshot().Status)
	_, ok := op.Result()
	assert.False(t, ok)
}

func TestCancelReason(t *testing.T) {
	assert.Equal(t, "user_cancel", ReasonUserCancel.String())
	assert.Equal(t, "new_search", ReasonNewSearch.String())
	assert.Equal(t, ReasonTimeout, ReasonOf(ReasonTimeout))
	assert.Equal(t, ReasonNone, ReasonOf(errors.New("other")))
	assert.Equal(t, ReasonClear, ReasonOf(errors.Join(errors.New("wrapped"), ReasonClear)))
}
