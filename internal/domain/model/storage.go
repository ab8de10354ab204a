package model

import (
	"fmt"
	"time"
)

// RecentSearch は保存された検索条件のスナップショット
type RecentSearch struct {
	Origin                 string `json:"origin"`
	Destination            string `json:"destination"`
	Date                   string `json:"date"`
	IsOnDemand             bool   `json:"isOnDemand"`
	Passengers             int    `json:"passengers"`
	IsWheelchairAccessible bool   `json:"isWheelchairAccessible"`
	IsTaxiOnDemand         bool   `json:"isTaxiOnDemand"`
	FindAccommodation      bool   `json:"findAccommodation"`
	IsUrgent               bool   `json:"isUrgent,omitempty"`
}

// Key は重複判定に使う複合キー
func (s *RecentSearch) Key() string {
	return fmt.Sprintf("%s|%s|%t|%t", s.Origin, s.Destination, s.IsTaxiOnDemand, s.IsUrgent)
}

// ToSearchRequest はスナップショットから検索条件を復元する（座標は含まない）
func (s *RecentSearch) ToSearchRequest() SearchRequest {
	return SearchRequest{
		Origin:                 s.Origin,
		Destination:            s.Destination,
		Date:                   s.Date,
		IsOnDemand:             s.IsOnDemand,
		Passengers:             s.Passengers,
		IsWheelchairAccessible: s.IsWheelchairAccessible,
		IsTaxiOnDemand:         s.IsTaxiOnDemand,
		FindAccommodation:      s.FindAccommodation,
		IsUrgent:               s.IsUrgent,
	}
}

// RecentSearchFromIdea はアイデアから検索条件を作る（当日・1名・オプションなし）
func RecentSearchFromIdea(idea TripIdea, now time.Time) RecentSearch {
	return RecentSearch{
		Origin:      idea.Origin,
		Destination: idea.Destination,
		Date:        FormatDate(now),
		Passengers:  1,
	}
}

// FormatDate は日付をYYYY-MM-DD形式に変換する
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Subscription はルートのアラート購読
type Subscription struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Summary     string `json:"summary"`
	Date        string `json:"date"`
}

// UpdateKind は運行情報の分類
type UpdateKind string

const (
	UpdateSuccess UpdateKind = "success"
	UpdateWarning UpdateKind = "warning"
	UpdateError   UpdateKind = "error"
	UpdateInfo    UpdateKind = "info"
)

// TripUpdate は /api/checkTripUpdates のレスポンス
type TripUpdate struct {
	Message string     `json:"message"`
	Kind    UpdateKind `json:"kind,omitempty"`
}

// CheckTripUpdatesRequest は /api/checkTripUpdates のリクエスト
type CheckTripUpdatesRequest struct {
	Subscription *Subscription `json:"subscription"`
}
