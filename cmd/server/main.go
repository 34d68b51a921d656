package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	geojson "github.com/paulmach/go.geojson"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/application"
	"PropertyMap-App/internal/config"
	"PropertyMap-App/internal/handler"
	"PropertyMap-App/internal/infrastructure/overlay"
	"PropertyMap-App/internal/logger"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`
	Store  StoreOptions  `group:"Store options"`

	Port            int    `short:"p" long:"port"         env:"PORT"             description:"Port to listen on"                     default:"5000"`
	AppEnv          string `long:"app-env"                env:"APP_ENV"          description:"Environment (production serves client)" default:"development"`
	FrontendURL     string `long:"frontend-url"           env:"FRONTEND_URL"     description:"Allowed CORS origin"                   default:"http://localhost:3000"`
	StaticDir       string `long:"static-dir"             env:"STATIC_DIR"       description:"Built client directory"                default:"client/build"`
	OverlayPath     string `long:"overlay"                env:"OVERLAY_PATH"     description:"CAD overlay GeoJSON file"`
	CalibrationFile string `short:"c" long:"calibrations" env:"CALIBRATION_FILE" description:"Calibration YAML file"                 default:"calibrations.yaml"`
}

func main() {
	envErr := config.LoadEnv()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()
	if envErr != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	if err := run(opts); err != nil {
		log.Error().Err(err).Msg("サーバーを起動できません")
		os.Exit(1)
	}
	log.Info().Msg("サーバーを停止しました")
}

// run ストアとオーバーレイを初期化してシグナルを受けるまでHTTPサーバーを動かす
func run(opts Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ストアの初期化
	store, closeStore, err := newStore(ctx, opts.Store)
	if err != nil {
		return fmt.Errorf("ストア(%s)の初期化に失敗: %w", opts.Store.Backend, err)
	}
	defer closeStore()

	if err := store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("ストアのヘルスチェックに失敗: %w", err)
	}
	log.Info().Str("backend", opts.Store.Backend).Msg("✅ Store connection successful!")

	// CADオーバーレイ
	overlayService, err := newOverlayService(opts)
	if err != nil {
		return fmt.Errorf("オーバーレイの初期化に失敗: %w", err)
	}

	production := opts.AppEnv == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	routerCfg := handler.RouterConfig{AllowedOrigin: opts.FrontendURL}
	if production {
		routerCfg.StaticDir = opts.StaticDir
	}

	router := handler.NewRouter(routerCfg, handler.Handlers{
		Properties: handler.NewPropertiesHandler(application.NewPropertiesService(store)),
		Overlay:    handler.NewOverlayHandler(overlayService),
		Health:     handler.NewHealthHandler(store),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("シャットダウンに失敗")
		}
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("env", opts.AppEnv).
		Str("calibration", overlayService.DefaultCalibration()).
		Msg("🚀 Property map server starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTPサーバーの異常終了: %w", err)
	}
	return nil
}

// newOverlayService キャリブレーション設定とCADオーバーレイを読み込む
func newOverlayService(opts Options) (application.OverlayService, error) {
	cals, err := config.LoadCalibrations(opts.CalibrationFile)
	if err != nil {
		return nil, err
	}

	var raw *geojson.FeatureCollection
	if opts.OverlayPath != "" {
		raw, err = overlay.LoadFile(opts.OverlayPath)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("path", opts.OverlayPath).
			Int("features", len(raw.Features)).
			Msg("🗺️ CADオーバーレイを読み込みました")
	} else {
		log.Warn().Msg("⚠️ OVERLAY_PATH が未設定のためオーバーレイAPIは404を返します")
	}

	return application.NewOverlayService(raw, cals.Items, cals.Default)
}
