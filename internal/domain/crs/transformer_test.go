package crs

import (
	"encoding/json"
	"math"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func newDefaultTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := NewTransformer(DefaultCalibration())
	require.NoError(t, err)
	return tr
}

func TestTransformPoint(t *testing.T) {
	tr := newDefaultTransformer(t)

	t.Run("基準点は目標経緯度に変換される", func(t *testing.T) {
		out := tr.TransformPoint([]float64{674000, 2735000})
		require.Len(t, out, 2)
		assert.InDelta(t, 20.0071, out[0], tolerance)
		assert.InDelta(t, 32.00, out[1], tolerance)
	})

	t.Run("回転と縮尺が適用される", func(t *testing.T) {
		out := tr.TransformPoint([]float64{674100, 2735000})
		d := 100 * math.Sqrt2 / 2
		assert.InDelta(t, 20.0071+d/(94000/1.3), out[0], tolerance)
		assert.InDelta(t, 32.00+d/(111000/1.3), out[1], tolerance)
	})

	t.Run("3要素の座標は標高をそのまま保持する", func(t *testing.T) {
		out := tr.TransformPoint([]float64{674250, 2734800, 12.5})
		require.Len(t, out, 3)
		assert.Equal(t, 12.5, out[2])
	})

	t.Run("要素数が2未満なら入力をそのまま返す", func(t *testing.T) {
		assert.Nil(t, tr.TransformPoint(nil))
		assert.Equal(t, []float64{1}, tr.TransformPoint([]float64{1}))
	})

	t.Run("同じ入力には同じ出力を返し、入力を変更しない", func(t *testing.T) {
		in := []float64{675123.4, 2736001.2, 3}
		first := tr.TransformPoint(in)
		second := tr.TransformPoint(in)
		assert.Equal(t, first, second)
		assert.Equal(t, []float64{675123.4, 2736001.2, 3}, in)
	})
}

func TestTransformGeometry(t *testing.T) {
	tr := newDefaultTransformer(t)

	ring := [][]float64{{674000, 2735000}, {674010, 2735000}, {674010, 2735010}, {674000, 2735000}}

	t.Run("種別ごとに入れ子構造を保持する", func(t *testing.T) {
		cases := []*geojson.Geometry{
			geojson.NewPointGeometry([]float64{674000, 2735000, 7}),
			geojson.NewLineStringGeometry(ring),
			geojson.NewMultiPointGeometry(ring...),
			geojson.NewPolygonGeometry([][][]float64{ring}),
			geojson.NewMultiLineStringGeometry(ring, ring),
			geojson.NewMultiPolygonGeometry([][][]float64{ring}, [][][]float64{ring, ring}),
		}
		for _, g := range cases {
			out := tr.TransformGeometry(g)
			require.NotNil(t, out, string(g.Type))
			assert.Equal(t, g.Type, out.Type)
			assert.Equal(t, len(g.Point), len(out.Point))
			assert.Equal(t, len(g.LineString), len(out.LineString))
			assert.Equal(t, len(g.MultiPoint), len(out.MultiPoint))
			assert.Equal(t, len(g.Polygon), len(out.Polygon))
			assert.Equal(t, len(g.MultiLineString), len(out.MultiLineString))
			assert.Equal(t, len(g.MultiPolygon), len(out.MultiPolygon))
		}
	})

	t.Run("MultiPolygon は3段の深さで変換される", func(t *testing.T) {
		g := geojson.NewMultiPolygonGeometry([][][]float64{ring})
		out := tr.TransformGeometry(g)
		assert.InDelta(t, 20.0071, out.MultiPolygon[0][0][0][0], tolerance)
		assert.InDelta(t, 32.00, out.MultiPolygon[0][0][0][1], tolerance)
		// 入力は変更されない
		assert.Equal(t, 674000.0, g.MultiPolygon[0][0][0][0])
	})

	t.Run("未対応の種別はそのまま返す", func(t *testing.T) {
		g := geojson.NewCollectionGeometry(geojson.NewPointGeometry([]float64{674000, 2735000}))
		assert.Same(t, g, tr.TransformGeometry(g))

		unknown := &geojson.Geometry{Type: "Circle"}
		assert.Same(t, unknown, tr.TransformGeometry(unknown))
	})

	t.Run("nilや座標なしはそのまま返す", func(t *testing.T) {
		assert.Nil(t, tr.TransformGeometry(nil))
		empty := &geojson.Geometry{Type: geojson.GeometryLineString}
		assert.Same(t, empty, tr.TransformGeometry(empty))
	})
}

func TestTransformFeatureCollection(t *testing.T) {
	tr := newDefaultTransformer(t)

	t.Run("基準点のPointフィーチャは目標付近に変換される", func(t *testing.T) {
		raw := `{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"layer":"0"},"geometry":{"type":"Point","coordinates":[674000,2735000]}},
			{"type":"Feature","properties":{"layer":"walls","handle":"1A"},"geometry":{"type":"LineString","coordinates":[[674000,2735000,0],[674050,2735020,0]]}}
		]}`
		fc, err := geojson.UnmarshalFeatureCollection([]byte(raw))
		require.NoError(t, err)

		out := tr.TransformFeatureCollection(fc)
		require.Len(t, out.Features, 2)
		assert.InDelta(t, 20.0071, out.Features[0].Geometry.Point[0], tolerance)
		assert.InDelta(t, 32.00, out.Features[0].Geometry.Point[1], tolerance)
		assert.Equal(t, "0", out.Features[0].Properties["layer"])
		assert.Equal(t, "1A", out.Features[1].Properties["handle"])
		assert.Len(t, out.Features[1].Geometry.LineString[1], 3)

		// 元のコレクションは変更されない
		assert.Equal(t, 674000.0, fc.Features[0].Geometry.Point[0])
	})

	t.Run("FeatureCollection以外はそのまま返す", func(t *testing.T) {
		fc := &geojson.FeatureCollection{Type: "Feature"}
		assert.Same(t, fc, tr.TransformFeatureCollection(fc))
		assert.Nil(t, tr.TransformFeatureCollection(nil))
	})

	t.Run("変換結果はGeoJSONとして再出力できる", func(t *testing.T) {
		fc := geojson.NewFeatureCollection()
		fc.AddFeature(geojson.NewPointFeature([]float64{674000, 2735000}))
		data, err := json.Marshal(tr.TransformFeatureCollection(fc))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"FeatureCollection"`)
	})
}

func TestNewTransformer(t *testing.T) {
	t.Run("縮尺0は拒否される", func(t *testing.T) {
		cal := DefaultCalibration()
		cal.ScaleFactor = 0
		_, err := NewTransformer(cal)
		assert.ErrorIs(t, err, ErrInvalidCalibration)
	})

	t.Run("別のキャリブレーションでも基準点は目標に一致する", func(t *testing.T) {
		cal := Calibration{
			Name:               "site-b",
			SourceOriginX:      500000,
			SourceOriginY:      4000000,
			TargetLongitude:    13.4,
			TargetLatitude:     52.5,
			ScaleFactor:        1,
			MetersPerDegreeLat: 111320,
			MetersPerDegreeLon: 67800,
		}
		tr, err := NewTransformer(cal)
		require.NoError(t, err)
		out := tr.TransformPoint([]float64{500000, 4000000})
		assert.InDelta(t, 13.4, out[0], tolerance)
		assert.InDelta(t, 52.5, out[1], tolerance)

		// 回転なしなら東方向のオフセットは経度のみに現れる
		east := tr.TransformPoint([]float64{500678, 4000000})
		assert.InDelta(t, 13.41, east[0], tolerance)
		assert.InDelta(t, 52.5, east[1], tolerance)
	})
}
