package application

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewPlan() *model.TripPlan {
	return &model.TripPlan{Routes: []model.Route{
		{
			Summary: "Bus caro", TotalDuration: "2h", TotalPrice: 40,
			Steps: []model.Step{{
				TransportType: model.TransportBus, Origin: "Teruel", Destination: "Alcañiz",
				DepartureTime: "07:00", ArrivalTime: "09:00",
				OriginCoords: &model.GeoPoint{Lat: 40.34, Lng: -1.10}, DestinationCoords: &model.GeoPoint{Lat: 41.05, Lng: -0.13},
			}},
		},
		{
			Summary: "Tren y a pie", TotalDuration: "1h 30m", TotalPrice: 10,
			Steps: []model.Step{
				{TransportType: model.TransportTrain, Origin: "Teruel", Destination: "Cella", DepartureTime: "08:00", ArrivalTime: "08:20"},
				{TransportType: model.TransportWalk, Origin: "Cella", Destination: "Centro", DepartureTime: "08:20", ArrivalTime: "08:40"},
			},
		},
		{
			Summary: "Taxi", TotalDuration: "45m", TotalPrice: 25,
			Steps: []model.Step{{TransportType: model.TransportTaxi, Origin: "Teruel", Destination: "Gea", DepartureTime: "10:00", ArrivalTime: "10:45"}},
		},
	}}
}

func TestResultsView(t *testing.T) {
	t.Run("初期状態は上下限でリセットされ、全件が元の順で並ぶ", func(t *testing.T) {
		v := NewResultsView(viewPlan())

		assert.Equal(t, model.RouteBounds{PriceMax: 40, DurationMin: 0, DurationMax: 2}, v.Bounds())
		require.Len(t, v.Routes(), 3)
		assert.Equal(t, "Bus caro", v.Selected().Summary)
		assert.False(t, v.IsFiltered())
	})

	t.Run("徒歩はフィルタの選択肢に出さない", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		assert.Equal(t, []model.TransportType{model.TransportBus, model.TransportTrain, model.TransportTaxi}, v.AvailableTransports())
	})

	t.Run("選択中のルートが残っていれば選択を維持する", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		require.True(t, v.SelectIndex(2))
		taxi := v.Selected()

		v.UpdateFilter(func(f *model.FilterState) { f.SortKey = model.SortPriceAsc })

		assert.Equal(t, []string{"Tren y a pie", "Taxi", "Bus caro"}, summaries(v.Routes()))
		assert.Same(t, taxi, v.Selected())
	})

	t.Run("選択中のルートが除外されると先頭を選択する", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		require.True(t, v.Select(v.Routes()[0]))

		v.UpdateFilter(func(f *model.FilterState) { f.MaxPrice = 25 })

		assert.Equal(t, []string{"Tren y a pie", "Taxi"}, summaries(v.Routes()))
		assert.Equal(t, "Tren y a pie", v.Selected().Summary)
	})

	t.Run("すべて除外されると選択なしでフィルタ中と判定する", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		v.UpdateFilter(func(f *model.FilterState) { f.ToggleTransport(model.TransportTrain) })
		require.Len(t, v.Routes(), 1)

		v.UpdateFilter(func(f *model.FilterState) { f.ToggleTransport(model.TransportTaxi) })

		assert.Empty(t, v.Routes())
		assert.Nil(t, v.Selected())
		assert.True(t, v.IsFiltered())

		v.ResetFilter()
		assert.Len(t, v.Routes(), 3)
		assert.False(t, v.IsFiltered())
	})

	t.Run("結果が空ならフィルタ中とは判定しない", func(t *testing.T) {
		v := NewResultsView(&model.TripPlan{})
		assert.Empty(t, v.Routes())
		assert.False(t, v.IsFiltered())
		assert.Equal(t, 100.0, v.Bounds().PriceMax)
	})

	t.Run("Filterはコピーを返す", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		f := v.Filter()
		f.ToggleTransport(model.TransportBus)

		current := v.Filter()
		assert.Empty(t, current.SelectedTransportTypes())
		assert.Equal(t, []model.TransportType{model.TransportBus}, f.SelectedTransportTypes())
		assert.Len(t, v.Routes(), 3)
	})

	t.Run("一覧にないルートは選択できない", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		other := viewPlan().Routes[0]
		assert.False(t, v.Select(&other))
		assert.False(t, v.SelectIndex(5))
	})

	t.Run("地図は選択中のルートから作られる", func(t *testing.T) {
		v := NewResultsView(viewPlan())
		rm := v.RouteMap()
		require.Len(t, rm.Markers, 2)
		assert.True(t, rm.FitBounds)

		require.True(t, v.SelectIndex(1))
		rm = v.RouteMap()
		assert.Empty(t, rm.Markers)
		assert.Equal(t, service.DefaultMapZoom, rm.Zoom)
	})
}

func summaries(routes []*model.Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Summary)
	}
	return out
}
