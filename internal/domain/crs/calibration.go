// Package crs はCADなどのローカル平面座標系をWGS84経緯度へ変換する。
package crs

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCalibration キャリブレーション値が不正
var ErrInvalidCalibration = errors.New("invalid calibration")

// Calibration 平面座標系からWGS84への変換パラメータ
type Calibration struct {
	Name string

	// 平面座標系側の基準点（メートル）
	SourceOriginX float64
	SourceOriginY float64

	// 基準点が対応する経緯度（度）
	TargetLongitude float64
	TargetLatitude  float64

	// オフセットベクトルに適用する回転角（ラジアン）
	RotationRadians float64

	// 両軸の1度あたりメートル数を割る縮尺係数
	ScaleFactor float64

	// 対象緯度帯での1度あたりメートル数（経験値）
	MetersPerDegreeLat float64
	MetersPerDegreeLon float64
}

// DefaultCalibrationName 既定キャリブレーション名
const DefaultCalibrationName = "cad-default"

// DefaultCalibration CADエクスポート（X~674000, Y~2735000）をベンガジ周辺に合わせる既定値
func DefaultCalibration() Calibration {
	return Calibration{
		Name:               DefaultCalibrationName,
		SourceOriginX:      674000,
		SourceOriginY:      2735000,
		TargetLongitude:    20.0071,
		TargetLatitude:     32.00,
		RotationRadians:    45 * math.Pi / 180,
		ScaleFactor:        1.3,
		MetersPerDegreeLat: 111000, // 緯度1度 ≒ 111km
		MetersPerDegreeLon: 94000,  // 北緯32度付近で経度1度 ≒ 94km
	}
}

// Validate 変換に使えない値を検出する
func (c Calibration) Validate() error {
	if c.ScaleFactor == 0 || math.IsNaN(c.ScaleFactor) || math.IsInf(c.ScaleFactor, 0) {
		return fmt.Errorf("%w: %s: scale_factor は0以外の有限値である必要があります", ErrInvalidCalibration, c.Name)
	}
	if c.MetersPerDegreeLat == 0 || c.MetersPerDegreeLon == 0 {
		return fmt.Errorf("%w: %s: meters_per_degree は0以外である必要があります", ErrInvalidCalibration, c.Name)
	}
	return nil
}
