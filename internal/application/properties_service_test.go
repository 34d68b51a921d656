package application

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/repository"
)

func floatPtr(v float64) *float64 { return &v }

func validRequest() *model.CreatePropertyRequest {
	return &model.CreatePropertyRequest{
		Title:        "Lot A",
		PropertyType: model.PropertyTypeLand,
		Price:        floatPtr(1000),
		LandSize:     10000,
		Address:      "Benghazi",
		Location:     &model.LatLng{Lat: 32.0, Lng: 20.0},
		Polygon: geojson.NewGeometry(orb.Polygon{{
			{20.0, 32.0}, {20.001, 32.0}, {20.001, 32.001}, {20.0, 32.0},
		}}),
	}
}

func TestValidateCreatePropertyRequest(t *testing.T) {
	t.Run("正常なリクエスト", func(t *testing.T) {
		assert.NoError(t, ValidateCreatePropertyRequest(validRequest()))
	})

	t.Run("ポリゴンなしでも作成可能", func(t *testing.T) {
		req := validRequest()
		req.Polygon = nil
		assert.NoError(t, ValidateCreatePropertyRequest(req))
	})

	t.Run("必須項目の欠落", func(t *testing.T) {
		cases := map[string]func(r *model.CreatePropertyRequest){
			"title":        func(r *model.CreatePropertyRequest) { r.Title = "" },
			"propertyType": func(r *model.CreatePropertyRequest) { r.PropertyType = "" },
			"price":        func(r *model.CreatePropertyRequest) { r.Price = nil },
			"location":     func(r *model.CreatePropertyRequest) { r.Location = nil },
		}
		for name, mutate := range cases {
			req := validRequest()
			mutate(req)
			err := ValidateCreatePropertyRequest(req)
			assert.ErrorIs(t, err, ErrMissingFields, name)
		}
		assert.ErrorIs(t, ValidateCreatePropertyRequest(nil), ErrMissingFields)
	})

	t.Run("価格0は欠落扱いしない", func(t *testing.T) {
		req := validRequest()
		req.Price = floatPtr(0)
		assert.NoError(t, ValidateCreatePropertyRequest(req))
	})

	t.Run("未知の物件種別", func(t *testing.T) {
		req := validRequest()
		req.PropertyType = "Castle"
		assert.ErrorIs(t, ValidateCreatePropertyRequest(req), ErrInvalidPropertyType)

		req.PropertyType = model.PropertyTypeAll
		assert.ErrorIs(t, ValidateCreatePropertyRequest(req), ErrInvalidPropertyType)
	})

	t.Run("範囲外の位置", func(t *testing.T) {
		req := validRequest()
		req.Location = &model.LatLng{Lat: 95, Lng: 20}
		assert.ErrorIs(t, ValidateCreatePropertyRequest(req), ErrInvalidLocation)
	})

	t.Run("Polygon以外のジオメトリ", func(t *testing.T) {
		req := validRequest()
		req.Polygon = geojson.NewGeometry(orb.Point{20, 32})
		assert.ErrorIs(t, ValidateCreatePropertyRequest(req), ErrInvalidPolygon)
	})

	t.Run("閉じていないリング", func(t *testing.T) {
		req := validRequest()
		req.Polygon = geojson.NewGeometry(orb.Polygon{{
			{20.0, 32.0}, {20.001, 32.0}, {20.001, 32.001}, {20.0, 32.001},
		}})
		assert.ErrorIs(t, ValidateCreatePropertyRequest(req), ErrInvalidPolygon)
	})
}

func TestPropertiesService(t *testing.T) {
	ctx := context.Background()

	t.Run("作成した物件を取得できる", func(t *testing.T) {
		repo := repository.NewMemoryPropertiesRepository()
		svc := NewPropertiesService(repo)

		created, err := svc.CreateProperty(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)

		got, err := svc.GetProperty(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lot A", got.Title)
		assert.Equal(t, int64(10000), got.LandSize)
		require.NotNil(t, got.Polygon)
		assert.Equal(t, "Polygon", got.Polygon.Type)
	})

	t.Run("検証エラーでは保存しない", func(t *testing.T) {
		repo := repository.NewMemoryPropertiesRepository()
		svc := NewPropertiesService(repo)

		req := validRequest()
		req.Title = ""
		_, err := svc.CreateProperty(ctx, req)
		assert.ErrorIs(t, err, ErrMissingFields)

		all, err := svc.SearchProperties(ctx, &model.PropertyFilter{})
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("存在しない物件", func(t *testing.T) {
		svc := NewPropertiesService(repository.NewMemoryPropertiesRepository())
		_, err := svc.GetProperty(ctx, 42)
		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})

	t.Run("フィルタ付き検索", func(t *testing.T) {
		repo := repository.NewMemoryPropertiesRepository(
			model.Property{Title: "Harbor Office", PropertyType: model.PropertyTypeCommercial, Price: 500000, LandSize: 800},
			model.Property{Title: "Olive Farm", PropertyType: model.PropertyTypeAgricultural, Price: 120000, LandSize: 40000},
			model.Property{Title: "Harbor Warehouse", PropertyType: model.PropertyTypeIndustrial, Price: 250000, LandSize: 3000},
		)
		svc := NewPropertiesService(repo)

		found, err := svc.SearchProperties(ctx, &model.PropertyFilter{Search: "harbor"})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = svc.SearchProperties(ctx, &model.PropertyFilter{Search: "harbor", MaxPrice: floatPtr(300000)})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Harbor Warehouse", found[0].Title)

		found, err = svc.SearchProperties(ctx, &model.PropertyFilter{PropertyType: model.PropertyTypeAll})
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("ストア障害はラップして返す", func(t *testing.T) {
		repo := repository.NewMemoryPropertiesRepository()
		boom := errors.New("connection refused")
		repo.FailWith(boom)
		svc := NewPropertiesService(repo)

		_, err := svc.CreateProperty(ctx, validRequest())
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrMissingFields)
	})
}
