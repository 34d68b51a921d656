package application

import (
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PropertyMap-App/internal/domain/crs"
	"PropertyMap-App/internal/infrastructure/overlay"
)

func cadOverlay() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewPointFeature([]float64{674000, 2735000}))
	fc.AddFeature(geojson.NewLineStringFeature([][]float64{{674100, 2735000}, {674000, 2735100}}))
	fc.AddFeature(geojson.NewPolygonFeature([][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}))
	return fc
}

func noRotation() crs.Calibration {
	return crs.Calibration{
		Name:               "flat",
		SourceOriginX:      0,
		SourceOriginY:      0,
		TargetLongitude:    10,
		TargetLatitude:     20,
		ScaleFactor:        1,
		MetersPerDegreeLat: 100,
		MetersPerDegreeLon: 100,
	}
}

func TestOverlayService_Transformed(t *testing.T) {
	t.Run("デフォルトキャリブレーションで変換", func(t *testing.T) {
		svc, err := NewOverlayService(cadOverlay(), nil, "")
		require.NoError(t, err)
		assert.Equal(t, crs.DefaultCalibrationName, svc.DefaultCalibration())

		fc, err := svc.Transformed("")
		require.NoError(t, err)
		require.Len(t, fc.Features, 3)
		assert.InDelta(t, 20.0071, fc.Features[0].Geometry.Point[0], 1e-9)
		assert.InDelta(t, 32.00, fc.Features[0].Geometry.Point[1], 1e-9)
	})

	t.Run("同じキャリブレーションはメモ化される", func(t *testing.T) {
		svc, err := NewOverlayService(cadOverlay(), nil, "")
		require.NoError(t, err)

		first, err := svc.Transformed(crs.DefaultCalibrationName)
		require.NoError(t, err)
		second, err := svc.Transformed("")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("元データは変更されない", func(t *testing.T) {
		raw := cadOverlay()
		svc, err := NewOverlayService(raw, nil, "")
		require.NoError(t, err)

		_, err = svc.Transformed("")
		require.NoError(t, err)
		assert.Equal(t, []float64{674000, 2735000}, raw.Features[0].Geometry.Point)
	})

	t.Run("未登録のキャリブレーション", func(t *testing.T) {
		svc, err := NewOverlayService(cadOverlay(), nil, "")
		require.NoError(t, err)

		_, err = svc.Transformed("unknown")
		assert.ErrorIs(t, err, ErrUnknownCalibration)
	})

	t.Run("オーバーレイ未設定", func(t *testing.T) {
		svc, err := NewOverlayService(nil, nil, "")
		require.NoError(t, err)

		_, err = svc.Transformed("")
		assert.ErrorIs(t, err, ErrNoOverlay)
	})

	t.Run("不正なキャリブレーションは初期化エラー", func(t *testing.T) {
		bad := noRotation()
		bad.ScaleFactor = 0
		_, err := NewOverlayService(cadOverlay(), []crs.Calibration{bad}, "")
		assert.ErrorIs(t, err, crs.ErrInvalidCalibration)
	})

	t.Run("存在しないデフォルト名", func(t *testing.T) {
		_, err := NewOverlayService(cadOverlay(), []crs.Calibration{noRotation()}, "missing")
		assert.ErrorIs(t, err, ErrUnknownCalibration)
	})

	t.Run("複数キャリブレーション", func(t *testing.T) {
		svc, err := NewOverlayService(cadOverlay(), []crs.Calibration{crs.DefaultCalibration(), noRotation()}, "flat")
		require.NoError(t, err)
		assert.Equal(t, []string{crs.DefaultCalibrationName, "flat"}, svc.Calibrations())
		assert.Equal(t, "flat", svc.DefaultCalibration())
	})
}

func TestOverlayService_Bounds(t *testing.T) {
	t.Run("Point と LineString から範囲を計算", func(t *testing.T) {
		raw := geojson.NewFeatureCollection()
		raw.AddFeature(geojson.NewPointFeature([]float64{0, 0}))
		raw.AddFeature(geojson.NewLineStringFeature([][]float64{{100, 0}, {200, 400}}))
		// Polygon は範囲計算に含めない
		raw.AddFeature(geojson.NewPolygonFeature([][][]float64{{{-10000, -10000}, {10000, -10000}, {10000, 10000}, {-10000, -10000}}}))

		svc, err := NewOverlayService(raw, []crs.Calibration{noRotation()}, "")
		require.NoError(t, err)

		b, err := svc.Bounds("")
		require.NoError(t, err)
		assert.InDelta(t, 10.0, b.Min[0], 1e-9)
		assert.InDelta(t, 20.0, b.Min[1], 1e-9)
		assert.InDelta(t, 12.0, b.Max[0], 1e-9)
		assert.InDelta(t, 24.0, b.Max[1], 1e-9)
		assert.InDelta(t, 11.0, b.Center[0], 1e-9)
		assert.InDelta(t, 22.0, b.Center[1], 1e-9)
	})

	t.Run("対象フィーチャがない", func(t *testing.T) {
		raw := geojson.NewFeatureCollection()
		raw.AddFeature(geojson.NewPolygonFeature([][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}))

		svc, err := NewOverlayService(raw, []crs.Calibration{noRotation()}, "")
		require.NoError(t, err)

		_, err = svc.Bounds("")
		assert.ErrorIs(t, err, ErrEmptyOverlay)
	})
}

func TestOverlayService_ForeignGeometry(t *testing.T) {
	raw, err := overlay.Load(strings.NewReader(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Circle","coordinates":[5,5]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point"}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[100,200]}}
	]}`))
	require.NoError(t, err)

	svc, err := NewOverlayService(raw, []crs.Calibration{noRotation()}, "")
	require.NoError(t, err)

	fc, err := svc.Transformed("")
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)
	assert.Nil(t, fc.Features[0].Geometry)
	assert.Nil(t, fc.Features[1].Geometry)

	bounds, err := svc.Bounds("")
	require.NoError(t, err)
	assert.InDelta(t, 11.0, bounds.Center[0], 1e-9)
	assert.InDelta(t, 22.0, bounds.Center[1], 1e-9)
}
