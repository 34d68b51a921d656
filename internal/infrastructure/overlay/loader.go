// Package overlay はCADから書き出したGeoJSONオーバーレイを読み込む。
package overlay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/rs/zerolog/log"
)

// rawCollection フィーチャ単位で読み込むための FeatureCollection
type rawCollection struct {
	Type        string                 `json:"type"`
	BoundingBox []float64              `json:"bbox,omitempty"`
	Features    []json.RawMessage      `json:"features"`
	CRS         map[string]interface{} `json:"crs,omitempty"`
}

// rawFeature ジオメトリを未パースのまま保持する Feature
type rawFeature struct {
	ID          interface{}            `json:"id,omitempty"`
	Type        string                 `json:"type"`
	BoundingBox []float64              `json:"bbox,omitempty"`
	Geometry    json.RawMessage        `json:"geometry"`
	Properties  map[string]interface{} `json:"properties"`
	CRS         map[string]interface{} `json:"crs,omitempty"`
}

// knownGeometryTypes go.geojson が座標を保持できるジオメトリ種別
var knownGeometryTypes = map[geojson.GeometryType]bool{
	geojson.GeometryPoint:           true,
	geojson.GeometryMultiPoint:      true,
	geojson.GeometryLineString:      true,
	geojson.GeometryMultiLineString: true,
	geojson.GeometryPolygon:         true,
	geojson.GeometryMultiPolygon:    true,
	geojson.GeometryCollection:      true,
}

// LoadFile GeoJSON FeatureCollection ファイルを読み込む
func LoadFile(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("オーバーレイファイルのオープン失敗: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load GeoJSON FeatureCollection を読み込む
// 読めないフィーチャは警告を出して除外し、未対応・座標なしのジオメトリは nil として残す
func Load(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("オーバーレイの読み込み失敗: %w", err)
	}

	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("オーバーレイのGeoJSONパースエラー: %w", err)
	}

	fc := &geojson.FeatureCollection{
		Type:        raw.Type,
		BoundingBox: raw.BoundingBox,
		Features:    make([]*geojson.Feature, 0, len(raw.Features)),
		CRS:         raw.CRS,
	}
	for i, item := range raw.Features {
		var rf rawFeature
		if err := json.Unmarshal(item, &rf); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("⚠️ 読み込めないフィーチャを除外")
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:          rf.ID,
			Type:        rf.Type,
			BoundingBox: rf.BoundingBox,
			Geometry:    decodeGeometry(i, rf.Geometry),
			Properties:  rf.Properties,
			CRS:         rf.CRS,
		})
	}
	return fc, nil
}

// decodeGeometry フィーチャのジオメトリを読み込む。失敗時は nil を返す
func decodeGeometry(index int, data json.RawMessage) *geojson.Geometry {
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var head struct {
		Type geojson.GeometryType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil || !knownGeometryTypes[head.Type] {
		log.Warn().Int("index", index).Str("type", string(head.Type)).Msg("⚠️ 未対応のジオメトリ種別のため無視")
		return nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		log.Warn().Err(err).Int("index", index).Str("type", string(head.Type)).Msg("⚠️ 座標を読み込めないジオメトリを無視")
		return nil
	}
	return g
}

// WriteFile FeatureCollection をファイルに書き出す
func WriteFile(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("オーバーレイのJSONマーシャル失敗: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("オーバーレイの書き出し失敗: %w", err)
	}
	return nil
}
