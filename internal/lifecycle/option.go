package lifecycle

import "time"

// Option は Operation の設定を変更する
type Option func(*options)

type options struct {
	timeout        time.Duration
	timeoutMessage string
	clock          Clock
	errorMessage   func(error) string
	listener       func(Snapshot)
}

// WithTimeout はウォッチドッグの制限時間と、発火時に表示するメッセージを設定する
// 0以下の場合はウォッチドッグを使わない
func WithTimeout(d time.Duration, message string) Option {
	return func(o *options) {
		o.timeout = d
		o.timeoutMessage = message
	}
}

// WithClock はタイマーの生成元を差し替える
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithErrorMessage は失敗時にユーザーへ表示するメッセージの決め方を設定する
// 元のエラーはログにのみ出力される
func WithErrorMessage(f func(error) string) Option {
	return func(o *options) {
		o.errorMessage = f
	}
}

// WithListener は状態が変わるたびに呼ばれるコールバックを設定する
// ロックの外から呼ばれるため、コールバック内で Operation のメソッドを呼んでもよい
func WithListener(f func(Snapshot)) Option {
	return func(o *options) {
		o.listener = f
	}
}
