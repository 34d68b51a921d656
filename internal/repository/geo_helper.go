package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/domain/model"
)

// EncodePolygon 敷地ポリゴンを polygon_data カラム用のJSONに変換（nil は NULL）
func EncodePolygon(polygon *geojson.Geometry) (interface{}, error) {
	if polygon == nil || polygon.Coordinates == nil {
		return nil, nil
	}
	data, err := json.Marshal(polygon)
	if err != nil {
		return nil, fmt.Errorf("ポリゴンのJSONマーシャル失敗: %w", err)
	}
	return string(data), nil
}

// DecodePolygon polygon_data カラムのJSONを GeoJSON ジオメトリに変換
// 旧形式 {id, coordinates, color, center, area} は Polygon に変換する
func DecodePolygon(data []byte) (*geojson.Geometry, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	polygon, err := geojson.UnmarshalGeometry(data)
	if err == nil {
		return polygon, nil
	}
	if ring, ok := decodeLegacyRing(data); ok {
		return geojson.NewGeometry(orb.Polygon{ring}), nil
	}
	return nil, fmt.Errorf("polygon_data JSONパースエラー: %w", err)
}

// legacyPolygon 旧クライアントが保存した描画ポリゴン（coordinates は閉じたリングの [lng, lat]）
type legacyPolygon struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

func decodeLegacyRing(data []byte) (orb.Ring, bool) {
	var legacy legacyPolygon
	if err := json.Unmarshal(data, &legacy); err != nil || legacy.Type != "" || len(legacy.Coordinates) < 3 {
		return nil, false
	}

	ring := make(orb.Ring, 0, len(legacy.Coordinates)+1)
	for _, c := range legacy.Coordinates {
		if len(c) < 2 {
			return nil, false
		}
		ring = append(ring, orb.Point{c[0], c[1]})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 {
		return nil, false
	}
	return ring, true
}

// PropertyResult properties テーブルの1行を受け取るための構造体
type PropertyResult struct {
	ID          int64
	Name        string
	Type        string
	Price       float64
	LandSize    sql.NullInt64
	Address     sql.NullString
	Lat         float64
	Lon         float64
	PolygonData sql.NullString
}

// ScanDest helper.PropertyColumns の順にスキャン先を返す
func (pr *PropertyResult) ScanDest() []interface{} {
	return []interface{}{
		&pr.ID, &pr.Name, &pr.Type, &pr.Price, &pr.LandSize,
		&pr.Address, &pr.Lat, &pr.Lon, &pr.PolygonData,
	}
}

// ToProperty PropertyResultをmodel.Propertyに変換
func (pr *PropertyResult) ToProperty() (*model.Property, error) {
	property := &model.Property{
		ID:           pr.ID,
		Title:        pr.Name,
		PropertyType: pr.Type,
		Price:        pr.Price,
		LandSize:     pr.LandSize.Int64,
		Address:      pr.Address.String,
		Location:     model.LatLng{Lat: pr.Lat, Lng: pr.Lon},
	}

	// 住所未登録の行は物件名を住所として扱う
	if property.Address == "" {
		property.Address = pr.Name
	}

	// 読めない polygon_data は一覧全体を失敗させず、ポリゴンなしとして返す
	if pr.PolygonData.Valid {
		polygon, err := DecodePolygon([]byte(pr.PolygonData.String))
		if err != nil {
			log.Warn().Err(err).Int64("id", pr.ID).Msg("⚠️ polygon_data を読み込めないためポリゴンなしで返します")
		}
		property.Polygon = polygon
	}

	return property, nil
}

// PropertyDB Supabase（PostgREST）保存用の構造体
type PropertyDB struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Price       float64         `json:"price"`
	LandSize    int64           `json:"landsize"`
	Address     string          `json:"address"`
	Lat         float64         `json:"lat"`
	Lon         float64         `json:"lon"`
	PolygonData json.RawMessage `json:"polygon_data,omitempty"`
}

// PropertyToPropertyDB model.Property を DB 保存用に変換
func PropertyToPropertyDB(p *model.Property) (*PropertyDB, error) {
	row := &PropertyDB{
		ID:       p.ID,
		Name:     p.Title,
		Type:     p.PropertyType,
		Price:    p.Price,
		LandSize: p.LandSize,
		Address:  p.Address,
		Lat:      p.Location.Lat,
		Lon:      p.Location.Lng,
	}
	if p.Polygon != nil {
		data, err := json.Marshal(p.Polygon)
		if err != nil {
			return nil, fmt.Errorf("ポリゴンのJSONマーシャル失敗: %w", err)
		}
		row.PolygonData = data
	}
	return row, nil
}

// ToProperty PropertyDBをmodel.Propertyに変換
func (row *PropertyDB) ToProperty() (*model.Property, error) {
	result := PropertyResult{
		ID:          row.ID,
		Name:        row.Name,
		Type:        row.Type,
		Price:       row.Price,
		LandSize:    sql.NullInt64{Int64: row.LandSize, Valid: true},
		Address:     sql.NullString{String: row.Address, Valid: row.Address != ""},
		Lat:         row.Lat,
		Lon:         row.Lon,
		PolygonData: sql.NullString{String: string(row.PolygonData), Valid: len(row.PolygonData) > 0},
	}
	return result.ToProperty()
}
