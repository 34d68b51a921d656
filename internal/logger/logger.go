// Package logger はzerologのグローバルロガーをコマンドラインオプションから設定する。
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger ログ出力のオプション（go-flags のグループとして埋め込む）
type Logger struct {
	Level   string `long:"log-level"    env:"LOG_LEVEL"    description:"Log level"                      choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string `long:"log-format"   env:"LOG_FORMAT"   description:"Log output format"              choice:"console" choice:"json" default:"console"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colored console output"`
}

// Setup グローバルロガーを標準エラー出力に設定する
func (l Logger) Setup() {
	log.Logger = l.New(os.Stderr)
	zerolog.SetGlobalLevel(l.level())
}

// New 指定の出力先にロガーを作成する
func (l Logger) New(w io.Writer) zerolog.Logger {
	if strings.EqualFold(l.Format, "json") {
		return zerolog.New(w).With().Timestamp().Logger().Level(l.level())
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    l.NoColor,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(console).With().Timestamp().Logger().Level(l.level())
}

func (l Logger) level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || l.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}
