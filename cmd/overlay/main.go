package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/application"
	"PropertyMap-App/internal/config"
	"PropertyMap-App/internal/infrastructure/overlay"
	"PropertyMap-App/internal/logger"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input           string `short:"i" long:"input"        env:"OVERLAY_PATH"     description:"CAD GeoJSON file in local planar coordinates (required unless --list)"`
	Output          string `short:"o" long:"output"       description:"Output file for the WGS84 GeoJSON (stdout when empty)"`
	CalibrationFile string `short:"c" long:"calibrations" env:"CALIBRATION_FILE" description:"Calibration YAML file" default:"calibrations.yaml"`
	Calibration     string `short:"n" long:"calibration"  description:"Calibration name (file default when empty)"`
	List            bool   `short:"l" long:"list"         description:"List calibrations and exit"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cals, err := config.LoadCalibrations(opts.CalibrationFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load calibrations")
	}

	if opts.List {
		names, def, err := listCalibrations(cals)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure calibrations")
		}
		for _, name := range names {
			log.Info().Str("name", name).Bool("default", name == def).Msg("calibration")
		}
		return
	}

	if opts.Input == "" {
		log.Fatal().Msg("--input is required unless --list is set")
	}

	raw, err := overlay.LoadFile(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Input).Msg("Failed to load overlay")
	}

	svc, err := application.NewOverlayService(raw, cals.Items, cals.Default)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure calibrations")
	}

	fc, err := svc.Transformed(opts.Calibration)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to transform overlay")
	}

	if bounds, err := svc.Bounds(opts.Calibration); err == nil {
		log.Info().
			Floats64("min", bounds.Min[:]).
			Floats64("max", bounds.Max[:]).
			Floats64("center", bounds.Center[:]).
			Msg("Overlay bounds")
	}

	if opts.Output == "" {
		data, err := fc.MarshalJSON()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode overlay")
		}
		if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
			log.Fatal().Err(err).Msg("Failed to write overlay")
		}
		return
	}

	if err := overlay.WriteFile(opts.Output, fc); err != nil {
		log.Fatal().Err(err).Msg("Failed to write overlay")
	}
	log.Info().
		Str("output", opts.Output).
		Int("features", len(fc.Features)).
		Msg("Overlay transformed")
}

// listCalibrations オーバーレイを読まずにキャリブレーション名とデフォルトを返す
func listCalibrations(cals *config.Calibrations) ([]string, string, error) {
	svc, err := application.NewOverlayService(nil, cals.Items, cals.Default)
	if err != nil {
		return nil, "", err
	}
	return svc.Calibrations(), svc.DefaultCalibration(), nil
}
