package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/domain/repository"
	"PropertyMap-App/internal/infrastructure/database"
	repo "PropertyMap-App/internal/repository"
)

// StoreOptions 物件ストアの接続オプション
type StoreOptions struct {
	Backend         string        `long:"store-backend"    env:"STORE_BACKEND"     description:"Property store backend" choice:"postgres" choice:"mysql" choice:"supabase" choice:"memory" default:"mysql"`
	Host            string        `long:"db-host"          env:"DB_HOST"           description:"Database host"          default:"localhost"`
	Port            int           `long:"db-port"          env:"DB_PORT"           description:"Database port (0 uses the driver default)"`
	User            string        `long:"db-user"          env:"DB_USER"           description:"Database user"          default:"root"`
	Password        string        `long:"db-password"      env:"DB_PASSWORD"       description:"Database password"`
	Name            string        `long:"db-name"          env:"DB_NAME"           description:"Database name"          default:"property_db"`
	SSLMode         string        `long:"db-sslmode"       env:"DB_SSLMODE"        description:"PostgreSQL sslmode"     default:"disable"`
	MaxOpenConns    int           `long:"db-max-conns"     env:"DB_MAX_CONNS"      description:"Connection pool size"   default:"10"`
	ConnectAttempts int           `long:"db-attempts"      env:"DB_CONNECT_ATTEMPTS" description:"Connection attempts"  default:"5"`
	ConnectInterval time.Duration `long:"db-retry-interval" env:"DB_RETRY_INTERVAL"  description:"Wait between attempts" default:"2s"`
	SupabaseURL     string        `long:"supabase-url"     env:"SUPABASE_URL"      description:"Supabase project URL"`
	SupabaseAnonKey string        `long:"supabase-anon-key" env:"SUPABASE_ANON_KEY" description:"Supabase anon key"`
}

func (o StoreOptions) databaseConfig(defaultPort int) database.Config {
	port := o.Port
	if port == 0 {
		port = defaultPort
	}
	return database.Config{
		Host:         o.Host,
		Port:         port,
		User:         o.User,
		Password:     o.Password,
		Name:         o.Name,
		SSLMode:      o.SSLMode,
		MaxOpenConns: o.MaxOpenConns,
	}
}

// newStore 設定されたバックエンドの物件リポジトリを作成する
func newStore(ctx context.Context, o StoreOptions) (repository.PropertiesRepository, func(), error) {
	noop := func() {}

	switch o.Backend {
	case "postgres":
		client, err := database.NewPostgreSQLClientWithRetry(ctx, o.databaseConfig(5432), o.ConnectAttempts, o.ConnectInterval)
		if err != nil {
			return nil, noop, err
		}
		return repo.NewSQLPropertiesRepository(client), closeClient(client), nil

	case "mysql":
		client, err := database.NewMySQLClientWithRetry(ctx, o.databaseConfig(3306), o.ConnectAttempts, o.ConnectInterval)
		if err != nil {
			return nil, noop, err
		}
		return repo.NewSQLPropertiesRepository(client), closeClient(client), nil

	case "supabase":
		client, err := database.NewSupabaseClient(o.SupabaseURL, o.SupabaseAnonKey)
		if err != nil {
			return nil, noop, err
		}
		return repo.NewSupabasePropertiesRepository(client), noop, nil

	case "memory":
		log.Warn().Msg("⚠️ インメモリストアを使用します（再起動でデータは消えます）")
		return repo.NewMemoryPropertiesRepository(), noop, nil

	default:
		return nil, noop, fmt.Errorf("未対応のストア: %s", o.Backend)
	}
}

func closeClient(client *database.SQLClient) func() {
	return func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("データベース接続のクローズに失敗")
		}
	}
}
