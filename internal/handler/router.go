package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouterConfig ルーター全体の設定
type RouterConfig struct {
	// AllowedOrigin CORSで許可するフロントエンドのオリジン
	AllowedOrigin string

	// StaticDir ビルド済みクライアントのディレクトリ（空の場合は配信しない）
	StaticDir string
}

// Handlers ルーターに登録するハンドラー群
type Handlers struct {
	Properties *PropertiesHandler
	Overlay    *OverlayHandler
	Health     *HealthHandler
}

// NewRouter APIルートと静的ファイル配信を設定したGinエンジンを作成
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	if cfg.AllowedOrigin != "" {
		r.Use(CORS(cfg.AllowedOrigin))
	}

	api := r.Group("/api")
	{
		if h.Health != nil {
			api.GET("/health", h.Health.GetHealth)
		}
		if h.Properties != nil {
			api.GET("/properties", h.Properties.ListProperties)
			api.GET("/properties/:id", h.Properties.GetProperty)
			api.POST("/properties", h.Properties.CreateProperty)
			api.GET("/property-types", h.Properties.ListPropertyTypes)
		}
		if h.Overlay != nil {
			api.GET("/overlay", h.Overlay.GetOverlay)
			api.GET("/overlay/bounds", h.Overlay.GetBounds)
			api.GET("/overlay/calibrations", h.Overlay.ListCalibrations)
		}
	}

	r.NoRoute(spaFallback(cfg.StaticDir))
	return r
}

// spaFallback 静的ファイルを返し、存在しないパスは index.html にフォールバックする
// /api 配下はJSONの404を返す
func spaFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if staticDir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Route not found",
			})
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
