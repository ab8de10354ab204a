package service

import (
	"TeruelTrip-App/internal/domain/model"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// SubscriptionID はルートから購読IDを導出する
// 要約・所要時間・料金・ソート済み移動手段一覧から作るため、これらが同じルートは同一IDになる
func SubscriptionID(route *model.Route) string {
	types := make([]string, 0, len(route.Steps))
	for _, step := range route.Steps {
		types = append(types, string(step.TransportType))
	}
	sort.Strings(types)

	raw := strings.Join([]string{
		route.Summary,
		route.TotalDuration,
		strconv.FormatFloat(route.TotalPrice, 'f', -1, 64),
		strings.Join(types, ","),
	}, "|")

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// NewSubscription はルートと検索日から購読スナップショットを作成する
// dateは結果を生んだ検索の日付（今日の日付ではない）
func NewSubscription(route *model.Route, date string) model.Subscription {
	origin := model.NotAvailable
	if first := route.FirstStep(); first != nil && first.Origin != "" {
		origin = first.Origin
	}
	destination := model.NotAvailable
	if last := route.LastStep(); last != nil && last.Destination != "" {
		destination = last.Destination
	}

	return model.Subscription{
		ID:          SubscriptionID(route),
		Origin:      origin,
		Destination: destination,
		Summary:     route.Summary,
		Date:        date,
	}
}

// ClassifyUpdate は運行情報メッセージをキーワードで分類する
func ClassifyUpdate(message string) model.UpdateKind {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "cancelad") || strings.Contains(m, "cancelled"):
		return model.UpdateError
	case strings.Contains(m, "retraso") || strings.Contains(m, "delay"):
		return model.UpdateWarning
	case strings.Contains(m, "orden") || strings.Contains(m, "previsto") || strings.Contains(m, "on time"):
		return model.UpdateSuccess
	default:
		return model.UpdateInfo
	}
}
