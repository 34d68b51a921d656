package application

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/domain/crs"
)

var (
	// ErrUnknownCalibration 指定名のキャリブレーションが登録されていない
	ErrUnknownCalibration = errors.New("unknown calibration")

	// ErrNoOverlay CADオーバーレイが設定されていない
	ErrNoOverlay = errors.New("no overlay configured")

	// ErrEmptyOverlay 範囲計算に使える Point / LineString がない
	ErrEmptyOverlay = errors.New("overlay has no point or line features")
)

// OverlayBounds 変換後オーバーレイの表示範囲（[lng, lat]）
type OverlayBounds struct {
	Min    orb.Point `json:"min"`
	Max    orb.Point `json:"max"`
	Center orb.Point `json:"center"`
}

// OverlayService CADオーバーレイをWGS84に変換して提供するサービス
type OverlayService interface {
	// Transformed 指定キャリブレーションで変換したオーバーレイを返す（空文字はデフォルト）
	Transformed(calibration string) (*geojson.FeatureCollection, error)

	// Bounds 変換後オーバーレイの Point / LineString から表示範囲を計算
	Bounds(calibration string) (*OverlayBounds, error)

	// Calibrations 登録済みキャリブレーション名の一覧
	Calibrations() []string

	// DefaultCalibration デフォルトのキャリブレーション名
	DefaultCalibration() string
}

// overlayServiceImpl OverlayServiceの実装
type overlayServiceImpl struct {
	raw          *geojson.FeatureCollection
	transformers map[string]*crs.Transformer
	defaultName  string

	mu    sync.Mutex
	cache map[string]*geojson.FeatureCollection
}

// NewOverlayService OverlayServiceの新しいインスタンスを作成
// raw が nil の場合、変換系の操作は ErrNoOverlay を返す
func NewOverlayService(raw *geojson.FeatureCollection, calibrations []crs.Calibration, defaultName string) (OverlayService, error) {
	if len(calibrations) == 0 {
		calibrations = []crs.Calibration{crs.DefaultCalibration()}
	}
	transformers := make(map[string]*crs.Transformer, len(calibrations))
	for _, cal := range calibrations {
		t, err := crs.NewTransformer(cal)
		if err != nil {
			return nil, fmt.Errorf("キャリブレーション %q の初期化失敗: %w", cal.Name, err)
		}
		transformers[cal.Name] = t
	}
	if defaultName == "" {
		defaultName = calibrations[0].Name
	}
	if _, ok := transformers[defaultName]; !ok {
		return nil, fmt.Errorf("デフォルトキャリブレーション %q: %w", defaultName, ErrUnknownCalibration)
	}

	return &overlayServiceImpl{
		raw:          raw,
		transformers: transformers,
		defaultName:  defaultName,
		cache:        make(map[string]*geojson.FeatureCollection),
	}, nil
}

func (s *overlayServiceImpl) resolve(name string) (string, *crs.Transformer, error) {
	if name == "" {
		name = s.defaultName
	}
	t, ok := s.transformers[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownCalibration, name)
	}
	return name, t, nil
}

// Transformed 変換結果はキャリブレーション名ごとに一度だけ計算して保持する
func (s *overlayServiceImpl) Transformed(calibration string) (*geojson.FeatureCollection, error) {
	name, t, err := s.resolve(calibration)
	if err != nil {
		return nil, err
	}
	if s.raw == nil {
		return nil, ErrNoOverlay
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if fc, ok := s.cache[name]; ok {
		return fc, nil
	}

	fc := t.TransformFeatureCollection(s.raw)
	s.cache[name] = fc
	log.Info().
		Str("calibration", name).
		Int("features", len(fc.Features)).
		Msg("🗺️ オーバーレイを変換しました")
	return fc, nil
}

func (s *overlayServiceImpl) Bounds(calibration string) (*OverlayBounds, error) {
	fc, err := s.Transformed(calibration)
	if err != nil {
		return nil, err
	}

	var bound orb.Bound
	found := false
	extend := func(c []float64) {
		if len(c) < 2 {
			return
		}
		p := orb.Point{c[0], c[1]}
		if !found {
			bound = p.Bound()
			found = true
			return
		}
		bound = bound.Extend(p)
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch f.Geometry.Type {
		case geojson.GeometryPoint:
			extend(f.Geometry.Point)
		case geojson.GeometryLineString:
			for _, c := range f.Geometry.LineString {
				extend(c)
			}
		}
	}
	if !found {
		return nil, ErrEmptyOverlay
	}

	return &OverlayBounds{
		Min:    bound.Min,
		Max:    bound.Max,
		Center: bound.Center(),
	}, nil
}

func (s *overlayServiceImpl) Calibrations() []string {
	names := make([]string, 0, len(s.transformers))
	for name := range s.transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *overlayServiceImpl) DefaultCalibration() string {
	return s.defaultName
}
