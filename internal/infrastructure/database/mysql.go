package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"PropertyMap-App/internal/domain/helper"
)

// NewMySQLClient 新しいMySQLクライアントを作成
func NewMySQLClient(ctx context.Context, cfg Config) (*SQLClient, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("DB_NAME環境変数が設定されていません")
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("MySQL接続の初期化に失敗: %w", err)
	}

	return openClient(ctx, sql.OpenDB(connector), helper.DialectMySQL, cfg)
}

// NewMySQLClientWithRetry 接続できるまでリトライしてMySQLクライアントを作成
func NewMySQLClientWithRetry(ctx context.Context, cfg Config, attempts int, interval time.Duration) (*SQLClient, error) {
	return withRetry(ctx, attempts, interval, func() (*SQLClient, error) {
		return NewMySQLClient(ctx, cfg)
	})
}
