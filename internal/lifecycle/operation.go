package lifecycle

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Status は操作の状態
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Func は Operation が実行する非同期処理
// ctx はキャンセルまたはウォッチドッグの発火で終了する
type Func[T any] func(ctx context.Context) (T, error)

// Snapshot はある時点での操作の状態
type Snapshot struct {
	Name       string
	Status     Status
	Loading    bool
	Error      string
	HasResult  bool
	Token      string       // 実行中のリクエストID（なければ空）
	LastReason CancelReason // 直近のキャンセル理由
}

type token struct {
	id     string
	cancel context.CancelCauseFunc
	timer  Timer
	reason CancelReason
}

// Operation はキャンセル可能な非同期操作の状態機械
// 実行中のトークンは常に高々1つで、新しい操作を開始する前に必ず前のトークンを無効化する
// 無効化されたトークンの完了はいかなる状態も変更しない
type Operation[T any] struct {
	name string
	opts options

	mu         sync.Mutex
	active     *token
	loading    bool
	errMsg     string
	result     T
	hasResult  bool
	lastReason CancelReason

	wg sync.WaitGroup
}

// New は Operation を作成する
func New[T any](name string, opts ...Option) *Operation[T] {
	o := options{
		clock:        RealClock,
		errorMessage: func(err error) string { return err.Error() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Operation[T]{name: name, opts: o}
}

// Start は前の操作を new_search でキャンセルしてから新しい操作を開始し、トークンIDを返す
// fn は別のゴルーチンで実行される
func (op *Operation[T]) Start(parent context.Context, fn Func[T]) string {
	op.mu.Lock()
	if op.active != nil {
		op.detachLocked(ReasonNewSearch)
	}

	ctx, cancel := context.WithCancelCause(parent)
	tok := &token{
		id:     uuid.NewString(),
		cancel: cancel,
	}
	op.active = tok
	op.loading = true
	op.errMsg = ""
	op.clearResultLocked()
	if op.opts.timeout > 0 {
		tok.timer = op.opts.clock.AfterFunc(op.opts.timeout, func() { op.expire(tok) })
	}
	snap := op.snapshotLocked()
	op.mu.Unlock()

	log.Printf("🔍 [%s] 操作を開始: %s", op.name, tok.id)
	op.notify(snap)

	op.wg.Add(1)
	go func() {
		defer op.wg.Done()
		res, err := fn(ctx)
		op.complete(tok, res, err)
	}()
	return tok.id
}

// Cancel は実行中の操作を指定の理由でキャンセルし、ローディングとエラーを即座にクリアする
// 実行中の処理の終了は待たない。キャンセルした操作があれば true を返す
func (op *Operation[T]) Cancel(reason CancelReason) bool {
	op.mu.Lock()
	cancelled := op.active != nil
	if cancelled {
		op.detachLocked(reason)
	}
	op.loading = false
	op.errMsg = ""
	snap := op.snapshotLocked()
	op.mu.Unlock()

	if cancelled {
		log.Printf("🛑 [%s] 操作をキャンセル: %s", op.name, reason)
	}
	op.notify(snap)
	return cancelled
}

// Clear は実行中の操作を clear でキャンセルし、結果を含むすべての状態を初期化する
func (op *Operation[T]) Clear() {
	op.mu.Lock()
	if op.active != nil {
		op.detachLocked(ReasonClear)
	}
	op.loading = false
	op.errMsg = ""
	op.clearResultLocked()
	snap := op.snapshotLocked()
	op.mu.Unlock()

	op.notify(snap)
}

// Reject は操作を開始せずにエラーを表示する（送信前のバリデーション失敗）
// 実行中の操作には影響しない
func (op *Operation[T]) Reject(message string) {
	op.mu.Lock()
	op.errMsg = message
	snap := op.snapshotLocked()
	op.mu.Unlock()

	op.notify(snap)
}

// Snapshot は現在の状態を返す
func (op *Operation[T]) Snapshot() Snapshot {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.snapshotLocked()
}

// Result は最後に成功した操作の結果を返す
func (op *Operation[T]) Result() (T, bool) {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.result, op.hasResult
}

// Wait は開始したすべての処理のゴルーチンが終了するまで待つ
func (op *Operation[T]) Wait() {
	op.wg.Wait()
}

// expire はウォッチドッグの発火時に呼ばれる
func (op *Operation[T]) expire(tok *token) {
	op.mu.Lock()
	if op.active != tok {
		op.mu.Unlock()
		return
	}
	op.detachLocked(ReasonTimeout)
	op.loading = false
	op.errMsg = op.opts.timeoutMessage
	op.clearResultLocked()
	snap := op.snapshotLocked()
	op.mu.Unlock()

	log.Printf("⏱️ [%s] 制限時間(%v)を超えたためキャンセル: %s", op.name, op.opts.timeout, tok.id)
	op.notify(snap)
}

// complete は処理の完了時に呼ばれる
func (op *Operation[T]) complete(tok *token, res T, err error) {
	op.mu.Lock()
	if tok.timer != nil {
		tok.timer.Stop()
	}
	if op.active != tok {
		reason := tok.reason
		op.mu.Unlock()
		log.Printf("🗑️ [%s] キャンセル済みの結果を破棄 (%s): %s", op.name, reason, tok.id)
		return
	}

	op.active = nil
	tok.cancel(nil)
	op.loading = false
	switch {
	case err == nil:
		op.result = res
		op.hasResult = true
		op.errMsg = ""
	case errors.Is(err, context.Canceled):
		// 親コンテキストのキャンセル（終了処理など）はエラー表示しない
		op.errMsg = ""
	default:
		op.errMsg = op.opts.errorMessage(err)
	}
	snap := op.snapshotLocked()
	op.mu.Unlock()

	if err != nil {
		log.Printf("❌ [%s] 操作が失敗: %v", op.name, err)
	} else {
		log.Printf("✅ [%s] 操作が完了: %s", op.name, tok.id)
	}
	op.notify(snap)
}

// detachLocked はトークンを無効化してウォッチドッグを解除する
func (op *Operation[T]) detachLocked(reason CancelReason) {
	tok := op.active
	op.active = nil
	tok.reason = reason
	op.lastReason = reason
	if tok.timer != nil {
		tok.timer.Stop()
	}
	tok.cancel(reason)
}

func (op *Operation[T]) clearResultLocked() {
	var zero T
	op.result = zero
	op.hasResult = false
}

func (op *Operation[T]) snapshotLocked() Snapshot {
	s := Snapshot{
		Name:       op.name,
		Loading:    op.loading,
		Error:      op.errMsg,
		HasResult:  op.hasResult,
		LastReason: op.lastReason,
	}
	if op.active != nil {
		s.Token = op.active.id
	}
	switch {
	case op.loading:
		s.Status = StatusLoading
	case op.errMsg != "":
		s.Status = StatusError
	case op.hasResult:
		s.Status = StatusSuccess
	default:
		s.Status = StatusIdle
	}
	return s
}

func (op *Operation[T]) notify(s Snapshot) {
	if op.opts.listener != nil {
		op.opts.listener(s)
	}
}
