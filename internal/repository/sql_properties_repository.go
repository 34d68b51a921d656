package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"PropertyMap-App/internal/domain/helper"
	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/domain/repository"
	"PropertyMap-App/internal/infrastructure/database"
)

// SQLPropertiesRepository PostgreSQL / MySQL 共通の物件リポジトリ
type SQLPropertiesRepository struct {
	client *database.SQLClient
}

// NewSQLPropertiesRepository 新しいSQLPropertiesRepositoryインスタンスを作成
func NewSQLPropertiesRepository(client *database.SQLClient) repository.PropertiesRepository {
	return &SQLPropertiesRepository{
		client: client,
	}
}

func (r *SQLPropertiesRepository) builder() *helper.PropertyQueryBuilder {
	return helper.NewPropertyQueryBuilder(r.client.Dialect)
}

func (r *SQLPropertiesRepository) Find(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error) {
	query, args := r.builder().Build(filter)

	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("物件データの検索失敗: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		var result PropertyResult
		if err := rows.Scan(result.ScanDest()...); err != nil {
			return nil, fmt.Errorf("物件データスキャンエラー: %w", err)
		}

		property, err := result.ToProperty()
		if err != nil {
			return nil, err
		}
		properties = append(properties, *property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("物件データの読み取り失敗: %w", err)
	}

	return properties, nil
}

func (r *SQLPropertiesRepository) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	row := r.client.DB.QueryRowContext(ctx, r.builder().ByIDQuery(), id)

	var result PropertyResult
	if err := row.Scan(result.ScanDest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("物件ID %d が見つかりません: %w", id, repository.ErrPropertyNotFound)
		}
		return nil, fmt.Errorf("物件データの取得失敗: %w", err)
	}

	return result.ToProperty()
}

func (r *SQLPropertiesRepository) Create(ctx context.Context, property *model.Property) error {
	polygon, err := EncodePolygon(property.Polygon)
	if err != nil {
		return err
	}

	query := r.builder().InsertQuery()
	args := []interface{}{
		property.Title,
		property.PropertyType,
		property.Price,
		property.LandSize,
		property.Address,
		property.Location.Lat,
		property.Location.Lng,
		polygon,
	}

	// PostgreSQL は RETURNING、MySQL は LastInsertId で採番IDを得る
	if r.client.Dialect == helper.DialectPostgres {
		if err := r.client.DB.QueryRowContext(ctx, query, args...).Scan(&property.ID); err != nil {
			return fmt.Errorf("物件データの作成失敗: %w", err)
		}
		return nil
	}

	res, err := r.client.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("物件データの作成失敗: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("採番IDの取得失敗: %w", err)
	}
	property.ID = id
	return nil
}

func (r *SQLPropertiesRepository) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}
