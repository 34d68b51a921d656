package helper

import (
	"fmt"
	"strings"

	"PropertyMap-App/internal/domain/model"
)

// Dialect SQLのプレースホルダ形式
type Dialect int

const (
	// DialectMySQL "?" 形式
	DialectMySQL Dialect = iota
	// DialectPostgres "$1" 形式
	DialectPostgres
)

// PropertyColumns properties テーブルの取得カラム（スキャン順）
const PropertyColumns = "id, name, type, price, landsize, address, lat, lon, polygon_data"

// PropertyQueryBuilder 物件検索のパラメータ化SQLを組み立てる
type PropertyQueryBuilder struct {
	dialect Dialect
	clauses []string
	args    []interface{}
}

// NewPropertyQueryBuilder 新しいPropertyQueryBuilderインスタンスを作成する
func NewPropertyQueryBuilder(dialect Dialect) *PropertyQueryBuilder {
	return &PropertyQueryBuilder{dialect: dialect}
}

// placeholder 次の引数のプレースホルダを返す
func (b *PropertyQueryBuilder) placeholder() string {
	if b.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", len(b.args)+1)
	}
	return "?"
}

// where 条件と引数を追加する
func (b *PropertyQueryBuilder) where(format string, arg interface{}) {
	b.clauses = append(b.clauses, fmt.Sprintf(format, b.placeholder()))
	b.args = append(b.args, arg)
}

// Build フィルタから SELECT 文と引数を生成する。nil の条件は含めない
func (b *PropertyQueryBuilder) Build(filter *model.PropertyFilter) (string, []interface{}) {
	b.clauses = nil
	b.args = nil

	if filter != nil {
		// 物件種別
		if filter.HasTypeFilter() {
			b.where("type = %s", filter.PropertyType)
		}

		// 価格
		if filter.MinPrice != nil {
			b.where("price >= %s", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			b.where("price <= %s", *filter.MaxPrice)
		}

		// 土地面積
		if filter.MinLandSize != nil {
			b.where("landsize >= %s", *filter.MinLandSize)
		}
		if filter.MaxLandSize != nil {
			b.where("landsize <= %s", *filter.MaxLandSize)
		}

		// 物件名の部分一致（大文字小文字を区別しない）
		if filter.Search != "" {
			like := "LIKE"
			if b.dialect == DialectPostgres {
				like = "ILIKE"
			}
			b.where("name "+like+" %s", "%"+filter.Search+"%")
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + PropertyColumns + " FROM properties WHERE 1=1")
	for _, c := range b.clauses {
		sb.WriteString(" AND " + c)
	}
	sb.WriteString(" ORDER BY id")

	return sb.String(), b.args
}

// ByIDQuery ID指定の SELECT 文
func (b *PropertyQueryBuilder) ByIDQuery() string {
	if b.dialect == DialectPostgres {
		return "SELECT " + PropertyColumns + " FROM properties WHERE id = $1"
	}
	return "SELECT " + PropertyColumns + " FROM properties WHERE id = ?"
}

// InsertQuery INSERT 文。PostgreSQL では採番IDを RETURNING で返す
func (b *PropertyQueryBuilder) InsertQuery() string {
	if b.dialect == DialectPostgres {
		return "INSERT INTO properties (name, type, price, landsize, address, lat, lon, polygon_data) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id"
	}
	return "INSERT INTO properties (name, type, price, landsize, address, lat, lon, polygon_data) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
}
