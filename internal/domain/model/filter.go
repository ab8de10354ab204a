package model

// SortKey は結果の並び順
type SortKey string

const (
	SortDefault      SortKey = "default"
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
	SortDurationAsc  SortKey = "duration-asc"
	SortDurationDesc SortKey = "duration-desc"
)

// ParseSortKey は文字列をSortKeyに変換する（不明な値はdefault）
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortDurationAsc, SortDurationDesc:
		return SortKey(s)
	default:
		return SortDefault
	}
}

// DurationRange は所要時間（時間単位）の範囲
type DurationRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RouteBounds はルート集合から算出したフィルタの上下限
type RouteBounds struct {
	PriceMax    float64 `json:"priceMax"`
	DurationMin float64 `json:"durationMin"`
	DurationMax float64 `json:"durationMax"`
}

// FilterState は結果一覧のフィルタ条件
type FilterState struct {
	MaxPrice             float64                `json:"maxPrice"`
	ActiveTransportTypes map[TransportType]bool `json:"activeTransportTypes"`
	DepartureNotBefore   string                 `json:"departureNotBefore,omitempty"` // "HH:MM"、空なら無効
	ArrivalNotAfter      string                 `json:"arrivalNotAfter,omitempty"`    // "HH:MM"、空なら無効
	DurationRange        DurationRange          `json:"durationRange"`
	SortKey              SortKey                `json:"sortKey"`
}

// NewFilterState は上下限からリセット済みのフィルタ条件を作る
func NewFilterState(bounds RouteBounds) FilterState {
	return FilterState{
		MaxPrice:             bounds.PriceMax,
		ActiveTransportTypes: map[TransportType]bool{},
		DurationRange:        DurationRange{Min: bounds.DurationMin, Max: bounds.DurationMax},
		SortKey:              SortDefault,
	}
}

// SelectedTransportTypes は選択中の移動手段を返す
func (f *FilterState) SelectedTransportTypes() []TransportType {
	types := make([]TransportType, 0, len(f.ActiveTransportTypes))
	for t, on := range f.ActiveTransportTypes {
		if on {
			types = append(types, t)
		}
	}
	return types
}

// ToggleTransport は移動手段の選択を切り替える
func (f *FilterState) ToggleTransport(t TransportType) {
	if f.ActiveTransportTypes == nil {
		f.ActiveTransportTypes = map[TransportType]bool{}
	}
	if f.ActiveTransportTypes[t] {
		delete(f.ActiveTransportTypes, t)
		return
	}
	f.ActiveTransportTypes[t] = true
}
