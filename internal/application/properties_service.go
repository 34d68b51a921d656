package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/domain/repository"
)

var (
	// ErrMissingFields 必須項目（title, propertyType, price, location）の欠落
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidPropertyType 未知の物件種別
	ErrInvalidPropertyType = errors.New("invalid property type")

	// ErrInvalidPolygon 敷地ポリゴンが閉じた単一リングのPolygonではない
	ErrInvalidPolygon = errors.New("invalid polygon")

	// ErrInvalidLocation 緯度経度が範囲外
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidValue 数値項目が範囲外
	ErrInvalidValue = errors.New("invalid value")

	// ErrPropertyNotFound 物件が存在しない
	ErrPropertyNotFound = repository.ErrPropertyNotFound
)

// PropertiesService 物件に関するビジネスロジックを提供するサービス
type PropertiesService interface {
	// SearchProperties フィルタに一致する物件一覧を取得
	SearchProperties(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error)

	// GetProperty 物件の詳細を取得
	GetProperty(ctx context.Context, id int64) (*model.Property, error)

	// CreateProperty 物件を新規作成
	CreateProperty(ctx context.Context, req *model.CreatePropertyRequest) (*model.Property, error)
}

// propertiesServiceImpl PropertiesServiceの実装
type propertiesServiceImpl struct {
	propertiesRepo repository.PropertiesRepository
}

// NewPropertiesService PropertiesServiceの新しいインスタンスを作成
func NewPropertiesService(propertiesRepo repository.PropertiesRepository) PropertiesService {
	return &propertiesServiceImpl{
		propertiesRepo: propertiesRepo,
	}
}

// SearchProperties フィルタに一致する物件一覧を取得
func (s *propertiesServiceImpl) SearchProperties(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error) {
	properties, err := s.propertiesRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("物件一覧の取得失敗: %w", err)
	}
	return properties, nil
}

// GetProperty 物件の詳細を取得
func (s *propertiesServiceImpl) GetProperty(ctx context.Context, id int64) (*model.Property, error) {
	property, err := s.propertiesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("物件詳細の取得失敗: %w", err)
	}
	return property, nil
}

// CreateProperty 物件を作成
func (s *propertiesServiceImpl) CreateProperty(ctx context.Context, req *model.CreatePropertyRequest) (*model.Property, error) {
	// 入力バリデーション
	if err := ValidateCreatePropertyRequest(req); err != nil {
		return nil, fmt.Errorf("リクエストの検証失敗: %w", err)
	}

	property := req.ToProperty()

	// データベースに保存
	if err := s.propertiesRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("物件データの保存失敗: %w", err)
	}

	log.Info().
		Int64("id", property.ID).
		Str("title", property.Title).
		Int64("land_size", property.LandSize).
		Msg("🏠 物件を作成しました")

	return property, nil
}

// IsValidationError 入力起因のエラーかどうか（ストア障害と区別する）
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidPropertyType) ||
		errors.Is(err, ErrInvalidPolygon) ||
		errors.Is(err, ErrInvalidLocation) ||
		errors.Is(err, ErrInvalidValue)
}

// ValidateCreatePropertyRequest リクエストのバリデーション
func ValidateCreatePropertyRequest(req *model.CreatePropertyRequest) error {
	if req == nil || req.Title == "" || req.PropertyType == "" || req.Price == nil || req.Location == nil {
		return ErrMissingFields
	}
	if !model.IsValidPropertyType(req.PropertyType) {
		return fmt.Errorf("%w: %s", ErrInvalidPropertyType, req.PropertyType)
	}
	if *req.Price < 0 {
		return fmt.Errorf("%w: 価格は0以上である必要があります", ErrInvalidValue)
	}
	if req.LandSize < 0 {
		return fmt.Errorf("%w: 土地面積は0以上である必要があります", ErrInvalidValue)
	}
	if req.Location.Lat < -90 || req.Location.Lat > 90 || req.Location.Lng < -180 || req.Location.Lng > 180 {
		return fmt.Errorf("%w: 緯度は-90から90、経度は-180から180の範囲内である必要があります", ErrInvalidLocation)
	}
	if req.Polygon != nil {
		if err := validatePolygon(req.Polygon.Coordinates); err != nil {
			return err
		}
	}
	return nil
}

// validatePolygon 敷地ポリゴンは穴なしの閉じたリング（4点以上）
func validatePolygon(g orb.Geometry) error {
	polygon, ok := g.(orb.Polygon)
	if !ok {
		return fmt.Errorf("%w: Polygon 以外のジオメトリです", ErrInvalidPolygon)
	}
	if len(polygon) != 1 {
		return fmt.Errorf("%w: リングは1つである必要があります", ErrInvalidPolygon)
	}
	ring := polygon[0]
	if len(ring) < 4 || !ring.Closed() {
		return fmt.Errorf("%w: 3点以上の閉じたリングである必要があります", ErrInvalidPolygon)
	}
	return nil
}
