package lifecycle

import (
	"context"
	"errors"
)

// CancelReason は操作がキャンセルされた理由
// context.WithCancelCause の cause として使えるよう error を実装する
type CancelReason int

const (
	ReasonNone CancelReason = iota
	ReasonUserCancel
	ReasonClear
	ReasonNewSearch
	ReasonTimeout
)

func (r CancelReason) String() string {
	switch r {
	case ReasonUserCancel:
		return "user_cancel"
	case ReasonClear:
		return "clear"
	case ReasonNewSearch:
		return "new_search"
	case ReasonTimeout:
		return "timeout"
	default:
		return "none"
	}
}

func (r CancelReason) Error() string {
	return "operation cancelled: " + r.String()
}

// ReasonOf はエラーまたはコンテキストのcauseからキャンセル理由を取り出す
func ReasonOf(err error) CancelReason {
	var r CancelReason
	if errors.As(err, &r) {
		return r
	}
	return ReasonNone
}

// CauseOf はコンテキストに設定されたキャンセル理由を返す
func CauseOf(ctx context.Context) CancelReason {
	return ReasonOf(context.Cause(ctx))
}
