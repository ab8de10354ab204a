package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTaxiOnlySearch(t *testing.T) {
	assert.True(t, IsTaxiOnlySearch("Teruel", "teruel "))
	assert.True(t, IsTaxiOnlySearch("  Alcañiz", "ALCAÑIZ"))
	assert.False(t, IsTaxiOnlySearch("Teruel", "Albarracín"))
	assert.False(t, IsTaxiOnlySearch("", ""))
	assert.False(t, IsTaxiOnlySearch("   ", " "))
}

func TestSearchRequest_Validate(t *testing.T) {
	t.Run("現在地で座標なしはエラー", func(t *testing.T) {
		req := SearchRequest{Origin: CurrentLocationLabel, Destination: "Teruel"}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, MsgConfirmLocation, ve.Message)
	})

	t.Run("現在地で座標ありは通る", func(t *testing.T) {
		req := SearchRequest{
			Origin:       CurrentLocationLabel,
			Destination:  "Teruel",
			OriginCoords: &GeoPoint{Lat: 40.34, Lng: -1.10},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("目的地なしはエラー", func(t *testing.T) {
		req := SearchRequest{Origin: "Teruel"}
		err := req.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, MsgMissingOriginDestination, ve.Message)
	})

	t.Run("出発地なしはエラー", func(t *testing.T) {
		req := SearchRequest{Destination: "Teruel"}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("通常の検索は通る", func(t *testing.T) {
		req := SearchRequest{Origin: "Teruel", Destination: "Albarracín", Date: "2026-10-17", Passengers: 2}
		assert.NoError(t, req.Validate())
	})
}

func TestSearchRequest_ToRecentSearch(t *testing.T) {
	req := SearchRequest{
		Origin:         CurrentLocationLabel,
		Destination:    "Albarracín",
		Date:           "2026-10-17",
		Passengers:     3,
		IsTaxiOnDemand: true,
		IsUrgent:       true,
		OriginCoords:   &GeoPoint{Lat: 40.3, Lng: -1.1},
	}

	recent := req.ToRecentSearch()
	assert.Equal(t, "Albarracín", recent.Destination)
	assert.Equal(t, 3, recent.Passengers)
	assert.True(t, recent.IsUrgent)

	// 座標は保存されないため、復元した検索は再度位置確認が必要になる
	restored := recent.ToSearchRequest()
	assert.Nil(t, restored.OriginCoords)
	assert.True(t, IsValidationError(restored.Validate()))
}

func TestRecentSearch_Key(t *testing.T) {
	a := RecentSearch{Origin: "Teruel", Destination: "Alcañiz", Date: "2026-10-17", Passengers: 1}
	b := RecentSearch{Origin: "Teruel", Destination: "Alcañiz", Date: "2026-12-01", Passengers: 4}
	c := RecentSearch{Origin: "Teruel", Destination: "Alcañiz", IsTaxiOnDemand: true}

	// 日付や人数は重複判定に含まれない
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestRecentSearchFromIdea(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	idea := TripIdea{Title: "Ruta medieval", Origin: "Teruel", Destination: "Albarracín"}

	s := RecentSearchFromIdea(idea, now)
	assert.Equal(t, "Teruel", s.Origin)
	assert.Equal(t, "Albarracín", s.Destination)
	assert.Equal(t, "2026-10-17", s.Date)
	assert.Equal(t, 1, s.Passengers)
	assert.False(t, s.IsOnDemand)
	assert.False(t, s.FindAccommodation)
}

func TestFilterState_ToggleTransport(t *testing.T) {
	f := NewFilterState(RouteBounds{PriceMax: 30, DurationMin: 0, DurationMax: 4})
	assert.Equal(t, SortDefault, f.SortKey)
	assert.Empty(t, f.SelectedTransportTypes())

	f.ToggleTransport(TransportBus)
	assert.Equal(t, []TransportType{TransportBus}, f.SelectedTransportTypes())

	f.ToggleTransport(TransportBus)
	assert.Empty(t, f.SelectedTransportTypes())
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortKey("price-asc"))
	assert.Equal(t, SortDurationDesc, ParseSortKey("duration-desc"))
	assert.Equal(t, SortDefault, ParseSortKey("cheapest"))
	assert.Equal(t, SortDefault, ParseSortKey(""))
}

func TestSearchRequest_ServerSideChecks(t *testing.T) {
	t.Run("必須項目", func(t *testing.T) {
		ok := SearchRequest{Origin: "Teruel", Destination: "Teruel", Date: "2026-10-17", Passengers: 1}
		assert.False(t, ok.MissingRequiredFields())

		noPassengers := ok
		noPassengers.Passengers = 0
		assert.True(t, noPassengers.MissingRequiredFields())

		noDest := ok
		noDest.Destination = ""
		assert.True(t, noDest.MissingRequiredFields())
	})

	t.Run("タクシー連絡先の検索", func(t *testing.T) {
		same := SearchRequest{Origin: "Alcañiz ", Destination: "alcañiz"}
		assert.True(t, same.WantsTaxiContacts())

		here := SearchRequest{Origin: CurrentLocationLabel, Destination: "Teruel", IsTaxiOnDemand: true}
		assert.True(t, here.WantsTaxiContacts())

		here.IsTaxiOnDemand = false
		assert.False(t, here.WantsTaxiContacts())
	})
}
