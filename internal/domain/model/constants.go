package model

// PropertyTypeConstants はアプリケーションで使用する物件種別の定数
const (
	PropertyTypeAll            = "All" // 検索フィルタ専用のワイルドカード
	PropertyTypeResidential    = "Residential"
	PropertyTypeCommercial     = "Commercial"
	PropertyTypeIndustrial     = "Industrial"
	PropertyTypePublic         = "Public"
	PropertyTypeRecreational   = "Recreational"
	PropertyTypeInfrastructure = "Infrastructure"
	PropertyTypeAgricultural   = "Agricultural"
	PropertyTypeFinancial      = "Financial"
	PropertyTypeLand           = "Land"
)

// DefaultPropertyType 作成フォームの初期種別
const DefaultPropertyType = PropertyTypeLand

// PropertyTypeNameMap は物件種別IDから日本語名へのマッピング
var PropertyTypeNameMap = map[string]string{
	PropertyTypeResidential:    "住宅",
	PropertyTypeCommercial:     "商業",
	PropertyTypeIndustrial:     "工業",
	PropertyTypePublic:         "公共",
	PropertyTypeRecreational:   "レクリエーション",
	PropertyTypeInfrastructure: "インフラ",
	PropertyTypeAgricultural:   "農業",
	PropertyTypeFinancial:      "金融",
	PropertyTypeLand:           "土地",
}

// GetPropertyTypeJapaneseName は物件種別IDから日本語名を取得する
func GetPropertyTypeJapaneseName(propertyType string) string {
	if name, ok := PropertyTypeNameMap[propertyType]; ok {
		return name
	}
	return propertyType // デフォルトはそのまま返す
}

// GetAllPropertyTypes は全物件種別の一覧を取得する（フォームの表示順）
func GetAllPropertyTypes() []string {
	return []string{
		PropertyTypeResidential,
		PropertyTypeCommercial,
		PropertyTypeIndustrial,
		PropertyTypePublic,
		PropertyTypeRecreational,
		PropertyTypeInfrastructure,
		PropertyTypeAgricultural,
		PropertyTypeFinancial,
		PropertyTypeLand,
	}
}

// IsValidPropertyType は作成時に指定可能な物件種別かどうかを判定する
func IsValidPropertyType(propertyType string) bool {
	_, ok := PropertyTypeNameMap[propertyType]
	return ok
}
