package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/application"
	"PropertyMap-App/internal/domain/model"
)

// PropertiesHandler 物件に関するHTTPハンドラー
type PropertiesHandler struct {
	propertiesService application.PropertiesService
}

// NewPropertiesHandler PropertiesHandlerの新しいインスタンスを作成
func NewPropertiesHandler(propertiesService application.PropertiesService) *PropertiesHandler {
	return &PropertiesHandler{
		propertiesService: propertiesService,
	}
}

// ListProperties GET /api/properties - フィルタ付き物件一覧
func (h *PropertiesHandler) ListProperties(c *gin.Context) {
	filter := ParsePropertyFilter(c)

	properties, err := h.propertiesService.SearchProperties(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("❌ 物件一覧の取得に失敗")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Database error",
			"error":   err.Error(),
		})
		return
	}
	if properties == nil {
		properties = []model.Property{}
	}

	c.JSON(http.StatusOK, properties)
}

// GetProperty GET /api/properties/:id - 物件詳細
func (h *PropertiesHandler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid property id",
		})
		return
	}

	property, err := h.propertiesService.GetProperty(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Property not found",
			})
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("❌ 物件詳細の取得に失敗")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Database error",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, property)
}

// CreateProperty POST /api/properties - 物件の作成
func (h *PropertiesHandler) CreateProperty(c *gin.Context) {
	var req model.CreatePropertyRequest

	// リクエストボディの解析
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	// サービス層で処理
	property, err := h.propertiesService.CreateProperty(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Missing required fields",
			})
		case application.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Invalid property",
				"error":   err.Error(),
			})
		default:
			log.Error().Err(err).Str("title", req.Title).Msg("❌ 物件の作成に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Database error",
				"error":   err.Error(),
			})
		}
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusCreated, property)
}

// ListPropertyTypes GET /api/property-types - 作成可能な物件種別
func (h *PropertiesHandler) ListPropertyTypes(c *gin.Context) {
	types := model.GetAllPropertyTypes()
	response := make([]gin.H, 0, len(types))
	for _, t := range types {
		response = append(response, gin.H{
			"value": t,
			"name":  model.GetPropertyTypeJapaneseName(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"default": model.DefaultPropertyType,
		"types":   response,
	})
}

// ParsePropertyFilter クエリパラメータから検索条件を組み立てる
// 数値として解釈できない値は条件から除外する
func ParsePropertyFilter(c *gin.Context) *model.PropertyFilter {
	return &model.PropertyFilter{
		Search:       c.Query("search"),
		PropertyType: c.Query("propertyType"),
		MinPrice:     queryFloat(c, "minPrice"),
		MaxPrice:     queryFloat(c, "maxPrice"),
		MinLandSize:  queryFloat(c, "minLandSize"),
		MaxLandSize:  queryFloat(c, "maxLandSize"),
	}
}

func queryFloat(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		log.Debug().Str("param", key).Str("value", raw).Msg("数値でない検索条件を無視")
		return nil
	}
	return &v
}
