// Package config は .env の読み込みとCADキャリブレーション設定ファイルを扱う。
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"PropertyMap-App/internal/domain/crs"
)

// LoadEnv .env ファイルを環境変数に読み込む。既に設定済みの環境変数は上書きしない
// ロガー設定前に呼ばれるため、ファイルがない場合のエラーは呼び出し側で記録する
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		return fmt.Errorf(".envファイルの読み込み失敗: %w", err)
	}
	return nil
}

// CalibrationFile キャリブレーション設定ファイルのルート
type CalibrationFile struct {
	Default      string             `yaml:"default,omitempty"`
	Calibrations []CalibrationEntry `yaml:"calibrations"`
}

// CalibrationEntry 1つの名前付きキャリブレーション（回転角は度で記述）
type CalibrationEntry struct {
	Name               string  `yaml:"name"`
	SourceOriginX      float64 `yaml:"source_origin_x"`
	SourceOriginY      float64 `yaml:"source_origin_y"`
	TargetLongitude    float64 `yaml:"target_longitude"`
	TargetLatitude     float64 `yaml:"target_latitude"`
	RotationDegrees    float64 `yaml:"rotation_degrees"`
	ScaleFactor        float64 `yaml:"scale_factor"`
	MetersPerDegreeLat float64 `yaml:"meters_per_degree_lat"`
	MetersPerDegreeLon float64 `yaml:"meters_per_degree_lon"`
}

// ToCalibration 度をラジアンに変換して crs.Calibration を作成
func (e CalibrationEntry) ToCalibration() crs.Calibration {
	return crs.Calibration{
		Name:               e.Name,
		SourceOriginX:      e.SourceOriginX,
		SourceOriginY:      e.SourceOriginY,
		TargetLongitude:    e.TargetLongitude,
		TargetLatitude:     e.TargetLatitude,
		RotationRadians:    e.RotationDegrees * math.Pi / 180,
		ScaleFactor:        e.ScaleFactor,
		MetersPerDegreeLat: e.MetersPerDegreeLat,
		MetersPerDegreeLon: e.MetersPerDegreeLon,
	}
}

// Calibrations 読み込んだキャリブレーション一覧とデフォルト名
type Calibrations struct {
	Default string
	Items   []crs.Calibration
}

// DefaultCalibrations 組み込みの既定キャリブレーションのみ
func DefaultCalibrations() *Calibrations {
	return &Calibrations{
		Default: crs.DefaultCalibrationName,
		Items:   []crs.Calibration{crs.DefaultCalibration()},
	}
}

// LoadCalibrations 設定ファイルからキャリブレーションを読み込む
// path が空、またはファイルが存在しない場合は既定キャリブレーションを返す
func LoadCalibrations(path string) (*Calibrations, error) {
	if path == "" {
		return DefaultCalibrations(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", path).Msg("⚠️ キャリブレーション設定がないため既定値を使用")
			return DefaultCalibrations(), nil
		}
		return nil, fmt.Errorf("キャリブレーション設定の読み込み失敗: %w", err)
	}

	cals, err := ParseCalibrations(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cals, nil
}

// ParseCalibrations YAMLを解析して検証する
func ParseCalibrations(data []byte) (*Calibrations, error) {
	var file CalibrationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("キャリブレーション設定の解析失敗: %w", err)
	}
	if len(file.Calibrations) == 0 {
		return DefaultCalibrations(), nil
	}

	cals := &Calibrations{Default: file.Default}
	seen := make(map[string]bool, len(file.Calibrations))
	for i, entry := range file.Calibrations {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: calibrations[%d]: name は必須です", crs.ErrInvalidCalibration, i)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("%w: %s: 名前が重複しています", crs.ErrInvalidCalibration, entry.Name)
		}
		seen[entry.Name] = true

		cal := entry.ToCalibration()
		if err := cal.Validate(); err != nil {
			return nil, err
		}
		cals.Items = append(cals.Items, cal)
	}

	if cals.Default == "" {
		cals.Default = cals.Items[0].Name
	}
	if !seen[cals.Default] {
		return nil, fmt.Errorf("%w: default %q が calibrations にありません", crs.ErrInvalidCalibration, cals.Default)
	}
	return cals, nil
}
