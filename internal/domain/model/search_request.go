package model

import (
	"errors"
	"strings"
)

// SearchRequest は経路検索の条件を保持する
type SearchRequest struct {
	Origin                 string    `json:"origin"`
	Destination            string    `json:"destination"`
	Date                   string    `json:"date"` // YYYY-MM-DD
	IsOnDemand             bool      `json:"isOnDemand"`
	Passengers             int       `json:"passengers"`
	IsWheelchairAccessible bool      `json:"isWheelchairAccessible"`
	IsTaxiOnDemand         bool      `json:"isTaxiOnDemand"`
	FindAccommodation      bool      `json:"findAccommodation"`
	IsUrgent               bool      `json:"isUrgent,omitempty"`
	OriginCoords           *GeoPoint `json:"originCoords,omitempty"`
}

// IsCurrentLocation は出発地が現在地マーカーかどうかを判定する
func (r *SearchRequest) IsCurrentLocation() bool {
	return r.Origin == CurrentLocationLabel
}

// IsTaxiOnlySearch は出発地と目的地が同じ（タクシー検索のみ）かどうかを判定する
func (r *SearchRequest) IsTaxiOnlySearch() bool {
	return IsTaxiOnlySearch(r.Origin, r.Destination)
}

// WantsTaxiContacts はタクシー連絡先の検索として扱うかを判定する（サーバー側）
// 出発地と目的地が同じ場合、または現在地からタクシー（オンデマンド）を探す場合
func (r *SearchRequest) WantsTaxiContacts() bool {
	if strings.EqualFold(strings.TrimSpace(r.Origin), strings.TrimSpace(r.Destination)) {
		return true
	}
	return r.IsCurrentLocation() && r.IsTaxiOnDemand
}

// MissingRequiredFields はサーバー側の必須項目（出発地・目的地・日付・人数）が欠けているか判定する
func (r *SearchRequest) MissingRequiredFields() bool {
	return r.Origin == "" || r.Destination == "" || r.Date == "" || r.Passengers <= 0
}

// IsTaxiOnlySearch は前後の空白と大文字小文字を無視して出発地と目的地が一致するか判定する
func IsTaxiOnlySearch(origin, destination string) bool {
	o := strings.ToLower(strings.TrimSpace(origin))
	d := strings.ToLower(strings.TrimSpace(destination))
	return o != "" && o == d
}

// Validate は送信前のバリデーションを行う
func (r *SearchRequest) Validate() error {
	if r.IsCurrentLocation() && r.OriginCoords == nil {
		return &ValidationError{Field: "originCoords", Message: MsgConfirmLocation}
	}
	if r.Origin == "" || (!r.IsTaxiOnlySearch() && r.Destination == "") {
		return &ValidationError{Field: "origin", Message: MsgMissingOriginDestination}
	}
	return nil
}

// ToRecentSearch は保存用のスナップショットを作成する（座標は保存しない）
func (r *SearchRequest) ToRecentSearch() RecentSearch {
	return RecentSearch{
		Origin:                 r.Origin,
		Destination:            r.Destination,
		Date:                   r.Date,
		IsOnDemand:             r.IsOnDemand,
		Passengers:             r.Passengers,
		IsWheelchairAccessible: r.IsWheelchairAccessible,
		IsTaxiOnDemand:         r.IsTaxiOnDemand,
		FindAccommodation:      r.FindAccommodation,
		IsUrgent:               r.IsUrgent,
	}
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidationError はエラーがValidationErrorかどうかを判定する
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
