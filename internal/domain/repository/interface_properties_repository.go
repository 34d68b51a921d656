package repository

import (
	"context"

	"PropertyMap-App/internal/domain/model"
)

// PropertiesRepository は物件レコードの永続化を担うリポジトリインターフェース
type PropertiesRepository interface {
	// Find はフィルタに一致する物件をID順で返す
	Find(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error)
	// GetByID は指定IDの物件を返す。存在しない場合は ErrPropertyNotFound
	GetByID(ctx context.Context, id int64) (*model.Property, error)
	// Create は物件を保存し、採番したIDを property.ID に設定する
	Create(ctx context.Context, property *model.Property) error
	// HealthCheck はストアへの接続を確認する
	HealthCheck(ctx context.Context) error
}
