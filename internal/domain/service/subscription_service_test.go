package service

import (
	"TeruelTrip-App/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionID(t *testing.T) {
	route := model.Route{
		Summary:       "Tren + taxi",
		TotalDuration: "1h 30m",
		TotalPrice:    25.5,
		Steps: []model.Step{
			{TransportType: model.TransportTrain},
			{TransportType: model.TransportBus},
		},
	}

	id := SubscriptionID(&route)
	assert.Equal(t, "Tren+taxi|1h30m|25.5|Bus,Train", id)
	assert.NotContains(t, id, " ")

	t.Run("同じ内容なら同じID", func(t *testing.T) {
		copied := route
		copied.Steps = []model.Step{
			{TransportType: model.TransportBus, Origin: "Teruel"},
			{TransportType: model.TransportTrain, Origin: "Zaragoza"},
		}
		assert.Equal(t, id, SubscriptionID(&copied))
	})

	t.Run("価格が違えば別ID", func(t *testing.T) {
		other := route
		other.TotalPrice = 26
		assert.NotEqual(t, id, SubscriptionID(&other))
	})
}

func TestNewSubscription(t *testing.T) {
	route := model.Route{
		Summary:       "Autobús directo",
		TotalDuration: "2h",
		TotalPrice:    8,
		Steps: []model.Step{
			{TransportType: model.TransportBus, Origin: "Teruel", Destination: "Mora de Rubielos"},
			{TransportType: model.TransportWalk, Origin: "Mora de Rubielos", Destination: "Castillo"},
		},
	}

	sub := NewSubscription(&route, "2026-11-02")
	assert.Equal(t, SubscriptionID(&route), sub.ID)
	assert.Equal(t, "Teruel", sub.Origin)
	assert.Equal(t, "Castillo", sub.Destination)
	assert.Equal(t, "Autobús directo", sub.Summary)
	assert.Equal(t, "2026-11-02", sub.Date)

	t.Run("ステップなしはN/A", func(t *testing.T) {
		empty := model.Route{Summary: "vacía"}
		sub := NewSubscription(&empty, "2026-11-02")
		assert.Equal(t, model.NotAvailable, sub.Origin)
		assert.Equal(t, model.NotAvailable, sub.Destination)
	})
}

func TestClassifyUpdate(t *testing.T) {
	tests := []struct {
		message string
		want    model.UpdateKind
	}{
		{"El servicio ha sido cancelado por nieve.", model.UpdateError},
		{"Línea cancelada hasta nuevo aviso", model.UpdateError},
		{"Service cancelled", model.UpdateError},
		{"Retraso de 15 minutos en la salida.", model.UpdateWarning},
		{"Minor delay expected", model.UpdateWarning},
		{"Todo en orden, sin incidencias.", model.UpdateSuccess},
		{"Salida según lo previsto.", model.UpdateSuccess},
		{"Running on time", model.UpdateSuccess},
		{"Obras en la estación de Teruel.", model.UpdateInfo},
		{"", model.UpdateInfo},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUpdate(tt.message))
		})
	}
}
