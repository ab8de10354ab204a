package application

import (
	"TeruelTrip-App/internal/domain/model"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const alertCheckTimeout = 30 * time.Second

// AlertHandler は購読ごとの運行情報の確認結果を受け取る
type AlertHandler func(sub model.Subscription, update *model.TripUpdate, err error)

// AlertWatcher は定期的にすべての購読の運行情報を確認する
type AlertWatcher struct {
	controller *TripPlannerController
	cron       *cron.Cron
	handler    AlertHandler
}

// NewAlertWatcher はcron形式のスケジュールで動くAlertWatcherを作成する
// 例: "@every 15m", "0 */30 * * * *"
func NewAlertWatcher(controller *TripPlannerController, schedule string, handler AlertHandler) (*AlertWatcher, error) {
	w := &AlertWatcher{
		controller: controller,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		handler:    handler,
	}
	if _, err := w.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertCheckTimeout)
		defer cancel()
		if err := w.CheckAll(ctx); err != nil {
			log.Printf("❌ 運行情報の定期確認に失敗: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("スケジュールの解析に失敗 (%q): %w", schedule, err)
	}
	return w, nil
}

// Start は定期確認を開始する
func (w *AlertWatcher) Start() {
	log.Printf("🔔 運行情報の定期確認を開始")
	w.cron.Start()
}

// Stop は定期確認を停止し、実行中の確認が終わるまで待つ
func (w *AlertWatcher) Stop() {
	<-w.cron.Stop().Done()
	log.Printf("🔕 運行情報の定期確認を停止")
}

// CheckAll はすべての購読を順番に確認し、結果をハンドラーに渡す
// 個別の確認の失敗はハンドラーに渡され、処理は続行する
func (w *AlertWatcher) CheckAll(ctx context.Context) error {
	subs, err := w.controller.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("購読一覧の取得に失敗: %w", err)
	}

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		update, err := w.controller.CheckSubscription(ctx, sub)
		if w.handler != nil {
			w.handler(sub, update, err)
		}
	}
	return nil
}
