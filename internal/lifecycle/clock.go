package lifecycle

import "time"

// Timer はウォッチドッグのタイマー
type Timer interface {
	Stop() bool
}

// Clock はタイマーを生成する。テストでは手動で進める実装に差し替える
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock は time.AfterFunc を使う標準の Clock
var RealClock Clock = realClock{}
