package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/domain/repository"
)

// MemoryPropertiesRepository プロセス内メモリに保持する物件リポジトリ（開発・テスト用）
type MemoryPropertiesRepository struct {
	mu         sync.RWMutex
	properties []model.Property
	nextID     int64
	failWith   error
}

// NewMemoryPropertiesRepository 初期データ付きで MemoryPropertiesRepository を作成
func NewMemoryPropertiesRepository(seed ...model.Property) *MemoryPropertiesRepository {
	r := &MemoryPropertiesRepository{}
	for _, p := range seed {
		if p.ID == 0 {
			r.nextID++
			p.ID = r.nextID
		} else if p.ID > r.nextID {
			r.nextID = p.ID
		}
		r.properties = append(r.properties, p)
	}
	return r
}

// FailWith 以降の操作を指定エラーで失敗させる（nil で解除）
func (r *MemoryPropertiesRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *MemoryPropertiesRepository) Find(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, fmt.Errorf("物件データの検索失敗: %w", r.failWith)
	}

	result := []model.Property{}
	for _, p := range r.properties {
		if matches(&p, filter) {
			result = append(result, p)
		}
	}
	return result, nil
}

// matches SQLの検索条件と同じ判定を行う
func matches(p *model.Property, f *model.PropertyFilter) bool {
	if f == nil {
		return true
	}
	if f.HasTypeFilter() && p.PropertyType != f.PropertyType {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinLandSize != nil && float64(p.LandSize) < *f.MinLandSize {
		return false
	}
	if f.MaxLandSize != nil && float64(p.LandSize) > *f.MaxLandSize {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (r *MemoryPropertiesRepository) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, fmt.Errorf("物件データの取得失敗: %w", r.failWith)
	}

	for _, p := range r.properties {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("物件ID %d が見つかりません: %w", id, repository.ErrPropertyNotFound)
}

func (r *MemoryPropertiesRepository) Create(ctx context.Context, property *model.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return fmt.Errorf("物件データの作成失敗: %w", r.failWith)
	}

	r.nextID++
	property.ID = r.nextID
	r.properties = append(r.properties, *property)
	return nil
}

func (r *MemoryPropertiesRepository) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.failWith
}
