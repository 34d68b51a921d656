package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LatLng 緯度経度を表す基本的な型（物件の代表位置などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToPoint LatLng を orb.Point（経度, 緯度の順）に変換
func (l LatLng) ToPoint() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// LatLngFromPoint orb.Point から LatLng を作成
func LatLngFromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// Property 物件レコードを表すモデル
type Property struct {
	ID           int64             `json:"id" db:"id"`                // 物件ID
	Title        string            `json:"title" db:"name"`           // 物件名
	PropertyType string            `json:"propertyType" db:"type"`    // 物件種別
	Price        float64           `json:"price" db:"price"`          // 価格（USD）
	LandSize     int64             `json:"landSize" db:"landsize"`    // 土地面積（m²）
	Address      string            `json:"address" db:"address"`      // 住所
	Location     LatLng            `json:"location"`                  // 代表位置（lat, lon カラム）
	Polygon      *geojson.Geometry `json:"polygon" db:"polygon_data"` // 敷地境界（GeoJSON Polygon、NULL可）
}

// CreatePropertyRequest 物件作成リクエスト
type CreatePropertyRequest struct {
	Title        string            `json:"title"`
	PropertyType string            `json:"propertyType"`
	Price        *float64          `json:"price"`
	LandSize     int64             `json:"landSize"`
	Address      string            `json:"address"`
	Location     *LatLng           `json:"location"`
	Polygon      *geojson.Geometry `json:"polygon"`
}

// ToProperty リクエストを保存用の Property に変換（IDは未採番）
func (r *CreatePropertyRequest) ToProperty() *Property {
	p := &Property{
		Title:        r.Title,
		PropertyType: r.PropertyType,
		LandSize:     r.LandSize,
		Address:      r.Address,
		Polygon:      r.Polygon,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Location != nil {
		p.Location = *r.Location
	}
	return p
}

// PropertyFilter 物件検索の条件。nil のフィールドは条件に含めない
type PropertyFilter struct {
	Search       string   `json:"search,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"` // 空または "All" は全種別
	MinPrice     *float64 `json:"minPrice,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty"`
	MinLandSize  *float64 `json:"minLandSize,omitempty"`
	MaxLandSize  *float64 `json:"maxLandSize,omitempty"`
}

// HasTypeFilter 種別条件が有効かどうか
func (f *PropertyFilter) HasTypeFilter() bool {
	return f.PropertyType != "" && f.PropertyType != PropertyTypeAll
}
