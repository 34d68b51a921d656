package crs

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
)

// Transformer 平面座標をWGS84経緯度へ変換する。生成後は不変で並行利用可能
type Transformer struct {
	cal       Calibration
	cos       float64
	sin       float64
	metersLat float64 // MetersPerDegreeLat / ScaleFactor
	metersLon float64 // MetersPerDegreeLon / ScaleFactor
}

// NewTransformer キャリブレーションから Transformer を作成
func NewTransformer(cal Calibration) (*Transformer, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &Transformer{
		cal:       cal,
		cos:       math.Cos(cal.RotationRadians),
		sin:       math.Sin(cal.RotationRadians),
		metersLat: cal.MetersPerDegreeLat / cal.ScaleFactor,
		metersLon: cal.MetersPerDegreeLon / cal.ScaleFactor,
	}, nil
}

// Calibration 使用中のキャリブレーションを返す
func (t *Transformer) Calibration() Calibration {
	return t.cal
}

// TransformPoint 1座標を変換する。要素数は入力と同じで、3番目以降（標高など）はそのまま
// 要素数が2未満の場合は入力をそのまま返す
func (t *Transformer) TransformPoint(coord []float64) []float64 {
	if len(coord) < 2 {
		return coord
	}

	dx := coord[0] - t.cal.SourceOriginX
	dy := coord[1] - t.cal.SourceOriginY

	rx := dx*t.cos - dy*t.sin
	ry := dx*t.sin + dy*t.cos

	out := make([]float64, len(coord))
	out[0] = t.cal.TargetLongitude + rx/t.metersLon
	out[1] = t.cal.TargetLatitude + ry/t.metersLat
	copy(out[2:], coord[2:])
	return out
}

func (t *Transformer) transformLine(coords [][]float64) [][]float64 {
	if coords == nil {
		return nil
	}
	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = t.TransformPoint(c)
	}
	return out
}

func (t *Transformer) transformRings(rings [][][]float64) [][][]float64 {
	if rings == nil {
		return nil
	}
	out := make([][][]float64, len(rings))
	for i, r := range rings {
		out[i] = t.transformLine(r)
	}
	return out
}

// TransformGeometry ジオメトリ種別ごとの深さで座標を変換する
// 未知の種別（GeometryCollection含む）、nil、座標なしの場合は入力をそのまま返す
func (t *Transformer) TransformGeometry(g *geojson.Geometry) *geojson.Geometry {
	if g == nil {
		return nil
	}

	out := *g
	switch g.Type {
	case geojson.GeometryPoint:
		if g.Point == nil {
			return g
		}
		out.Point = t.TransformPoint(g.Point)
	case geojson.GeometryLineString:
		if g.LineString == nil {
			return g
		}
		out.LineString = t.transformLine(g.LineString)
	case geojson.GeometryMultiPoint:
		if g.MultiPoint == nil {
			return g
		}
		out.MultiPoint = t.transformLine(g.MultiPoint)
	case geojson.GeometryPolygon:
		if g.Polygon == nil {
			return g
		}
		out.Polygon = t.transformRings(g.Polygon)
	case geojson.GeometryMultiLineString:
		if g.MultiLineString == nil {
			return g
		}
		out.MultiLineString = t.transformRings(g.MultiLineString)
	case geojson.GeometryMultiPolygon:
		if g.MultiPolygon == nil {
			return g
		}
		polygons := make([][][][]float64, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			polygons[i] = t.transformRings(p)
		}
		out.MultiPolygon = polygons
	default:
		return g
	}
	return &out
}

// featureCollectionType GeoJSON FeatureCollection の type タグ
const featureCollectionType = "FeatureCollection"

// TransformFeatureCollection 全フィーチャのジオメトリを変換した新しいコレクションを返す
// FeatureCollection 以外はそのまま返す。フィーチャの順序・ID・プロパティは保持する
func (t *Transformer) TransformFeatureCollection(fc *geojson.FeatureCollection) *geojson.FeatureCollection {
	if fc == nil || fc.Type != featureCollectionType {
		return fc
	}

	out := *fc
	out.Features = make([]*geojson.Feature, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil {
			continue
		}
		feature := *f
		feature.Geometry = t.TransformGeometry(f.Geometry)
		out.Features[i] = &feature
	}
	return &out
}
