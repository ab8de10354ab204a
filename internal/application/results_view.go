package application

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/service"
	"maps"
)

// ResultsView は1回の検索結果に対するフィルタ・並び替え・選択の状態
// 結果が届くたびに作り直されるため、フィルタは常に新しい結果の上下限でリセットされる
// 並行に使う場合は呼び出し側で排他すること
type ResultsView struct {
	plan     *model.TripPlan
	bounds   model.RouteBounds
	filter   model.FilterState
	visible  []*model.Route
	selected *model.Route
}

// NewResultsView は検索結果から表示用ビューを作成する
func NewResultsView(plan *model.TripPlan) *ResultsView {
	bounds := service.DeriveBounds(plan.Routes)
	v := &ResultsView{
		plan:   plan,
		bounds: bounds,
		filter: model.NewFilterState(bounds),
	}
	v.refresh()
	return v
}

// Plan は元の検索結果を返す
func (v *ResultsView) Plan() *model.TripPlan {
	return v.plan
}

// Bounds はフィルタの上下限を返す
func (v *ResultsView) Bounds() model.RouteBounds {
	return v.bounds
}

// Filter は現在のフィルタ条件のコピーを返す
func (v *ResultsView) Filter() model.FilterState {
	f := v.filter
	f.ActiveTransportTypes = maps.Clone(v.filter.ActiveTransportTypes)
	return f
}

// UpdateFilter はフィルタ条件を変更して一覧を再計算する
func (v *ResultsView) UpdateFilter(update func(f *model.FilterState)) {
	update(&v.filter)
	v.refresh()
}

// ResetFilter はフィルタ条件を上下限に戻す
func (v *ResultsView) ResetFilter() {
	v.filter = model.NewFilterState(v.bounds)
	v.refresh()
}

// Routes はフィルタと並び替えを適用したルート一覧を返す
func (v *ResultsView) Routes() []*model.Route {
	return v.visible
}

// Selected は選択中のルートを返す
func (v *ResultsView) Selected() *model.Route {
	return v.selected
}

// Select は一覧中のルートを選択する。一覧にない場合は false
func (v *ResultsView) Select(route *model.Route) bool {
	for _, r := range v.visible {
		if r == route {
			v.selected = r
			return true
		}
	}
	return false
}

// SelectIndex は一覧のi番目のルートを選択する
func (v *ResultsView) SelectIndex(i int) bool {
	if i < 0 || i >= len(v.visible) {
		return false
	}
	v.selected = v.visible[i]
	return true
}

// AvailableTransports はフィルタの選択肢に出す移動手段を返す（徒歩は除く）
func (v *ResultsView) AvailableTransports() []model.TransportType {
	var types []model.TransportType
	for _, t := range service.AvailableTransports(v.plan.Routes) {
		if t == model.TransportWalk {
			continue
		}
		types = append(types, t)
	}
	return types
}

// IsFiltered は結果があるのにフィルタですべて除外されているかを判定する
// 「ルートなし」と「条件に合うルートなし」の表示を分けるために使う
func (v *ResultsView) IsFiltered() bool {
	return len(v.visible) == 0 && len(v.plan.Routes) > 0
}

// RouteMap は選択中のルートの地図表示用データを返す
func (v *ResultsView) RouteMap() *service.RouteMap {
	return service.BuildRouteMap(v.selected)
}

func (v *ResultsView) refresh() {
	v.visible = service.ApplyFilter(v.plan.Routes, &v.filter)
	v.selected = service.NextSelection(v.selected, v.visible)
}
