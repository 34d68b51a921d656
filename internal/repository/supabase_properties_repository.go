package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/domain/repository"
	"PropertyMap-App/internal/infrastructure/database"
)

const propertiesTable = "properties"

type SupabasePropertiesRepository struct {
	client *database.SupabaseClient
}

func NewSupabasePropertiesRepository(client *database.SupabaseClient) repository.PropertiesRepository {
	return &SupabasePropertiesRepository{
		client: client,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *SupabasePropertiesRepository) Find(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error) {
	query := r.client.GetClient().From(propertiesTable).Select("*", "exact", false)

	if filter != nil {
		if filter.HasTypeFilter() {
			query = query.Eq("type", filter.PropertyType)
		}
		if filter.MinPrice != nil {
			query = query.Gte("price", formatFloat(*filter.MinPrice))
		}
		if filter.MaxPrice != nil {
			query = query.Lte("price", formatFloat(*filter.MaxPrice))
		}
		if filter.MinLandSize != nil {
			query = query.Gte("landsize", formatFloat(*filter.MinLandSize))
		}
		if filter.MaxLandSize != nil {
			query = query.Lte("landsize", formatFloat(*filter.MaxLandSize))
		}
		if filter.Search != "" {
			query = query.Ilike("name", "*"+filter.Search+"*")
		}
	}

	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("物件データの検索失敗: %w", err)
	}
	_ = count

	return decodeRows(data)
}

func (r *SupabasePropertiesRepository) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	data, count, err := r.client.GetClient().From(propertiesTable).Select("*", "exact", false).Eq("id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("物件データの取得失敗: %w", err)
	}
	_ = count

	properties, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("物件ID %d が見つかりません: %w", id, repository.ErrPropertyNotFound)
	}

	return &properties[0], nil
}

func (r *SupabasePropertiesRepository) Create(ctx context.Context, property *model.Property) error {
	row, err := PropertyToPropertyDB(property)
	if err != nil {
		return err
	}
	row.ID = 0 // IDはDBで採番

	data, _, err := r.client.GetClient().From(propertiesTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("物件データの作成失敗: %w", err)
	}

	created, err := decodeRows(data)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		return fmt.Errorf("作成した物件データが返されませんでした")
	}
	property.ID = created[0].ID
	return nil
}

func (r *SupabasePropertiesRepository) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck()
}

// decodeRows PostgRESTのレスポンスを物件リストに変換（ID順）
func decodeRows(data []byte) ([]model.Property, error) {
	var rows []PropertyDB
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("物件データのJSONアンマーシャル失敗: %w", err)
	}

	properties := make([]model.Property, 0, len(rows))
	for i := range rows {
		property, err := rows[i].ToProperty()
		if err != nil {
			return nil, err
		}
		properties = append(properties, *property)
	}

	sort.Slice(properties, func(i, j int) bool { return properties[i].ID < properties[j].ID })
	return properties, nil
}
