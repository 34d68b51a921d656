package helper

import (
	"testing"

	"PropertyMap-App/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func float(v float64) *float64 { return &v }

func TestPropertyQueryBuilder(t *testing.T) {
	t.Run("条件なしは全件取得", func(t *testing.T) {
		query, args := NewPropertyQueryBuilder(DialectMySQL).Build(&model.PropertyFilter{PropertyType: "All"})
		assert.Equal(t, "SELECT "+PropertyColumns+" FROM properties WHERE 1=1 ORDER BY id", query)
		assert.Empty(t, args)
	})

	t.Run("MySQLは?形式でフィルタ順に引数を並べる", func(t *testing.T) {
		filter := &model.PropertyFilter{
			Search:       "Villa",
			PropertyType: model.PropertyTypeResidential,
			MinPrice:     float(1000),
			MaxLandSize:  float(500),
		}
		query, args := NewPropertyQueryBuilder(DialectMySQL).Build(filter)
		assert.Contains(t, query, "WHERE 1=1 AND type = ? AND price >= ? AND landsize <= ? AND name LIKE ?")
		assert.Equal(t, []interface{}{"Residential", 1000.0, 500.0, "%Villa%"}, args)
	})

	t.Run("PostgreSQLは$n形式の連番", func(t *testing.T) {
		filter := &model.PropertyFilter{MinPrice: float(1), MaxPrice: float(2), MinLandSize: float(3)}
		query, args := NewPropertyQueryBuilder(DialectPostgres).Build(filter)
		assert.Contains(t, query, "AND price >= $1 AND price <= $2 AND landsize >= $3")
		assert.Len(t, args, 3)
	})

	t.Run("ビルダーを再利用しても引数は蓄積しない", func(t *testing.T) {
		b := NewPropertyQueryBuilder(DialectPostgres)
		b.Build(&model.PropertyFilter{Search: "a"})
		query, args := b.Build(&model.PropertyFilter{Search: "b"})
		assert.Contains(t, query, "name ILIKE $1")
		assert.Equal(t, []interface{}{"%b%"}, args)
	})

	t.Run("INSERT文の方言", func(t *testing.T) {
		assert.Contains(t, NewPropertyQueryBuilder(DialectPostgres).InsertQuery(), "RETURNING id")
		assert.NotContains(t, NewPropertyQueryBuilder(DialectMySQL).InsertQuery(), "$1")
	})
}
