package service

import (
	"TeruelTrip-App/internal/domain/model"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultMapCenter は地図表示の初期値（テルエル県全体）
var DefaultMapCenter = orb.Point{-0.7, 40.6}

const (
	DefaultMapZoom     = 8
	SinglePointMapZoom = 13
	boundsPadRatio     = 0.1
)

// MapMarker は地図上のマーカー
type MapMarker struct {
	Point orb.Point
	Role  string // "origin" or "destination"
	Label string
}

// RouteMap は地図ウィジェットに渡すルートの形状
type RouteMap struct {
	Markers   []MapMarker
	Polyline  orb.LineString // 2点以上ある場合のみ
	Bound     orb.Bound      // 10%の余白を含む
	Center    orb.Point
	Zoom      int
	FitBounds bool
}

// BuildRouteMap はルートの座標からマーカーとポリラインを組み立てる
// 点は最初のステップの出発地と各ステップの到着地で、不正な座標は除外する
func BuildRouteMap(route *model.Route) *RouteMap {
	rm := &RouteMap{Center: DefaultMapCenter, Zoom: DefaultMapZoom}
	if route == nil || len(route.Steps) == 0 {
		return rm
	}

	var points orb.LineString
	if p, ok := toPoint(route.Steps[0].OriginCoords); ok {
		points = append(points, p)
	}
	for _, step := range route.Steps {
		if p, ok := toPoint(step.DestinationCoords); ok {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return rm
	}

	start := points[0]
	end := points[len(points)-1]
	rm.Markers = append(rm.Markers, MapMarker{
		Point: start,
		Role:  "origin",
		Label: "Origen: " + route.Steps[0].Origin,
	})
	if len(points) > 1 && !start.Equal(end) {
		rm.Markers = append(rm.Markers, MapMarker{
			Point: end,
			Role:  "destination",
			Label: "Destino: " + route.Steps[len(route.Steps)-1].Destination,
		})
	}

	if len(points) == 1 {
		rm.Bound = start.Bound()
		rm.Center = start
		rm.Zoom = SinglePointMapZoom
		return rm
	}

	rm.Polyline = points
	rm.Bound = padBound(points.Bound(), boundsPadRatio)
	rm.Center = rm.Bound.Center()
	rm.Zoom = 0
	rm.FitBounds = true
	return rm
}

// ToGeoJSON はマーカーとポリラインをGeoJSONのFeatureCollectionに変換する
func (rm *RouteMap) ToGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range rm.Markers {
		f := geojson.NewFeature(m.Point)
		f.Properties["role"] = m.Role
		f.Properties["label"] = m.Label
		fc.Append(f)
	}
	if len(rm.Polyline) > 1 {
		f := geojson.NewFeature(rm.Polyline)
		f.Properties["role"] = "route"
		fc.Append(f)
	}
	if len(rm.Markers) > 0 {
		fc.BBox = geojson.NewBBox(rm.Bound)
	}
	return fc
}

func toPoint(g *model.GeoPoint) (orb.Point, bool) {
	if g == nil {
		return orb.Point{}, false
	}
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lng) || math.IsInf(g.Lat, 0) || math.IsInf(g.Lng, 0) {
		return orb.Point{}, false
	}
	if g.Lat < -90 || g.Lat > 90 || g.Lng < -180 || g.Lng > 180 {
		return orb.Point{}, false
	}
	// GeoJSONでは [lng, lat]
	return orb.Point{g.Lng, g.Lat}, true
}

// padBound は幅と高さに対する比率で境界ボックスを広げる
func padBound(b orb.Bound, ratio float64) orb.Bound {
	dx := (b.Max.Lon() - b.Min.Lon()) * ratio
	dy := (b.Max.Lat() - b.Min.Lat()) * ratio
	return orb.Bound{
		Min: orb.Point{b.Min.Lon() - dx, b.Min.Lat() - dy},
		Max: orb.Point{b.Max.Lon() + dx, b.Max.Lat() + dy},
	}
}
