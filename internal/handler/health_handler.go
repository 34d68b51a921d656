package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName ヘルスチェックで返すサービス名
const ServiceName = "property-map"

// HealthChecker 接続確認が可能なストア
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler ヘルスチェックのHTTPハンドラー
type HealthHandler struct {
	store HealthChecker
}

// NewHealthHandler HealthHandlerの新しいインスタンスを作成
func NewHealthHandler(store HealthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth GET /api/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	if h.store != nil {
		if err := h.store.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": ServiceName,
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
