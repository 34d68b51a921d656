package session

import (
	"math"
	"strconv"
	"strings"

	"PropertyMap-App/internal/domain/model"
)

// Filters サイドバーの検索条件（フォーム入力のまま文字列で保持する）
type Filters struct {
	Search       string
	PropertyType string
	MinPrice     string
	MaxPrice     string
	MinLandSize  string
	MaxLandSize  string
}

// DefaultFilters 初期状態の検索条件（全種別）
func DefaultFilters() Filters {
	return Filters{PropertyType: model.PropertyTypeAll}
}

// Query 検索条件をAPIのフィルタに変換する。数値として解釈できない値は含めない
func (f Filters) Query() *model.PropertyFilter {
	q := &model.PropertyFilter{
		Search:      strings.TrimSpace(f.Search),
		MinPrice:    parseNumber(f.MinPrice),
		MaxPrice:    parseNumber(f.MaxPrice),
		MinLandSize: parseNumber(f.MinLandSize),
		MaxLandSize: parseNumber(f.MaxLandSize),
	}
	if f.PropertyType != model.PropertyTypeAll {
		q.PropertyType = f.PropertyType
	}
	return q
}

func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
