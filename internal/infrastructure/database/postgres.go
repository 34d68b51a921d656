package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/domain/helper"
)

// Config リレーショナルストアへの接続設定
type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

// SQLClient database/sql の接続プールと方言
type SQLClient struct {
	DB      *sql.DB
	Dialect helper.Dialect
}

// NewPostgreSQLClient 新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient(ctx context.Context, cfg Config) (*SQLClient, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("DB_NAME環境変数が設定されていません")
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, quoteConnValue(cfg.Password), cfg.Name, sslMode,
	)

	connector, err := pq.NewConnector(connStr)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	return openClient(ctx, sql.OpenDB(connector), helper.DialectPostgres, cfg)
}

// NewPostgreSQLClientWithRetry 接続できるまでリトライしてPostgreSQLクライアントを作成
func NewPostgreSQLClientWithRetry(ctx context.Context, cfg Config, attempts int, interval time.Duration) (*SQLClient, error) {
	return withRetry(ctx, attempts, interval, func() (*SQLClient, error) {
		return NewPostgreSQLClient(ctx, cfg)
	})
}

// quoteConnValue libpq の key=value 形式用に値をクォートする
func quoteConnValue(v string) string {
	if v == "" {
		return "''"
	}
	escaped := ""
	for _, r := range v {
		if r == '\\' || r == '\'' {
			escaped += "\\"
		}
		escaped += string(r)
	}
	return "'" + escaped + "'"
}

// openClient 接続プールを設定して疎通確認する
func openClient(ctx context.Context, db *sql.DB, dialect helper.Dialect, cfg Config) (*SQLClient, error) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 接続テスト
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("データベースへの接続に失敗: %w", err)
	}

	return &SQLClient{DB: db, Dialect: dialect}, nil
}

// withRetry 接続処理を指定回数までリトライする
func withRetry(ctx context.Context, attempts int, interval time.Duration, connect func() (*SQLClient, error)) (*SQLClient, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := connect()
		if err == nil {
			return client, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i).Int("max_attempts", attempts).Msg("⚠️ データベース接続に失敗、リトライします")

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil, fmt.Errorf("%d回の接続試行に失敗: %w", attempts, lastErr)
}

// Close データベース接続を閉じる
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (c *SQLClient) HealthCheck(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("データベースクライアントが初期化されていません")
	}
	return c.DB.PingContext(ctx)
}
