package location

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// StaticProvider は設定された座標を現在地として返す
type StaticProvider struct {
	point *model.GeoPoint
}

var _ repository.LocationProvider = (*StaticProvider)(nil)

// NewStaticProvider は新しいStaticProviderを作成する。point が nil なら現在地は取得できない
func NewStaticProvider(point *model.GeoPoint) *StaticProvider {
	return &StaticProvider{point: point}
}

// CurrentPosition は設定された座標を返す
func (p *StaticProvider) CurrentPosition(ctx context.Context) (*model.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.point == nil {
		return nil, model.ErrLocationUnavailable
	}
	pt := *p.point
	return &pt, nil
}

// ParseLatLng は "lat,lng" 形式の文字列を座標に変換する
func ParseLatLng(s string) (*model.GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("座標は \"lat,lng\" 形式で指定してください: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("緯度が不正です: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("経度が不正です: %w", err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("座標が範囲外です: %v,%v", lat, lng)
	}
	return &model.GeoPoint{Lat: lat, Lng: lng}, nil
}
