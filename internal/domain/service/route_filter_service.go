package service

import (
	"TeruelTrip-App/internal/domain/helper"
	"TeruelTrip-App/internal/domain/model"
	"math"
	"sort"
)

const defaultPriceMax = 100

// DeriveBounds はルート集合からフィルタの上下限を算出する
func DeriveBounds(routes []model.Route) model.RouteBounds {
	maxPrice := 0.0
	minDur := 0.0
	maxDur := 1.0
	for _, r := range routes {
		maxPrice = math.Max(maxPrice, r.TotalPrice)
		d := helper.ParseDurationHours(r.TotalDuration)
		minDur = math.Min(minDur, d)
		maxDur = math.Max(maxDur, d)
	}

	priceMax := math.Ceil(maxPrice)
	if priceMax <= 0 {
		priceMax = defaultPriceMax
	}

	return model.RouteBounds{
		PriceMax:    priceMax,
		DurationMin: math.Floor(minDur),
		DurationMax: math.Ceil(maxDur),
	}
}

// AvailableTransports はルート集合に含まれる移動手段を出現順に重複なしで返す
func AvailableTransports(routes []model.Route) []model.TransportType {
	seen := make(map[model.TransportType]struct{})
	var types []model.TransportType
	for _, r := range routes {
		for _, step := range r.Steps {
			if _, ok := seen[step.TransportType]; ok {
				continue
			}
			seen[step.TransportType] = struct{}{}
			types = append(types, step.TransportType)
		}
	}
	return types
}

// MatchesFilter はルートがフィルタ条件をすべて満たすか判定する
func MatchesFilter(route *model.Route, f *model.FilterState) bool {
	if route.TotalPrice > f.MaxPrice {
		return false
	}

	// 選択された移動手段はすべて含まれている必要がある（AND条件）
	for _, t := range f.SelectedTransportTypes() {
		if !route.HasTransport(t) {
			return false
		}
	}

	if f.DepartureNotBefore != "" {
		first := route.FirstStep()
		if first == nil || first.DepartureTime == "" || first.DepartureTime < f.DepartureNotBefore {
			return false
		}
	}

	if f.ArrivalNotAfter != "" {
		last := route.LastStep()
		if last == nil || last.ArrivalTime == "" || last.ArrivalTime > f.ArrivalNotAfter {
			return false
		}
	}

	d := helper.ParseDurationHours(route.TotalDuration)
	return d >= f.DurationRange.Min && d <= f.DurationRange.Max
}

// FilterRoutes はフィルタ条件を満たすルートを元の順序のまま返す
// 返り値は元スライスの要素を指すため、ルートの同一性で選択状態を追跡できる
func FilterRoutes(routes []model.Route, f *model.FilterState) []*model.Route {
	filtered := make([]*model.Route, 0, len(routes))
	for i := range routes {
		if MatchesFilter(&routes[i], f) {
			filtered = append(filtered, &routes[i])
		}
	}
	return filtered
}

// SortRoutes は並び順キーに従ってルートを安定ソートする（defaultは順序を保持）
func SortRoutes(routes []*model.Route, key model.SortKey) {
	var value func(r *model.Route) float64
	desc := false

	switch key {
	case model.SortPriceAsc:
		value = func(r *model.Route) float64 { return r.TotalPrice }
	case model.SortPriceDesc:
		value = func(r *model.Route) float64 { return r.TotalPrice }
		desc = true
	case model.SortDurationAsc:
		value = func(r *model.Route) float64 { return helper.ParseDurationHours(r.TotalDuration) }
	case model.SortDurationDesc:
		value = func(r *model.Route) float64 { return helper.ParseDurationHours(r.TotalDuration) }
		desc = true
	default:
		return
	}

	sort.SliceStable(routes, func(i, j int) bool {
		if desc {
			return value(routes[i]) > value(routes[j])
		}
		return value(routes[i]) < value(routes[j])
	})
}

// ApplyFilter はフィルタとソートを適用した表示用リストを返す
func ApplyFilter(routes []model.Route, f *model.FilterState) []*model.Route {
	filtered := FilterRoutes(routes, f)
	SortRoutes(filtered, f.SortKey)
	return filtered
}

// NextSelection は一覧が変わった後の選択ルートを決める
// 以前の選択が一覧に残っていればそのまま、なければ先頭、空ならnil
func NextSelection(previous *model.Route, routes []*model.Route) *model.Route {
	if len(routes) == 0 {
		return nil
	}
	if previous != nil {
		for _, r := range routes {
			if r == previous {
				return previous
			}
		}
	}
	return routes[0]
}
