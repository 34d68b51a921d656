package drawing

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// ExportFileName エクスポートファイルの既定名
const ExportFileName = "property-bounds.json"

// Export 保存ポリゴンを Polygon フィーチャの FeatureCollection に変換
func Export(saved []ClosedPolygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range saved {
		f := geojson.NewFeature(p.Polygon())
		f.Properties["id"] = p.ID()
		f.Properties["color"] = p.Color()
		fc.Append(f)
	}
	return fc
}

// ExportJSON ダウンロード用にインデント付きのGeoJSONを出力
func ExportJSON(saved []ClosedPolygon) ([]byte, error) {
	data, err := json.MarshalIndent(Export(saved), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ポリゴンのGeoJSON変換失敗: %w", err)
	}
	return data, nil
}
