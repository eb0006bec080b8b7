package history

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/unikit/regent/pkg/history/consts"
	"github.com/unikit/regent/pkg/history/inmemory"
	mongohist "github.com/unikit/regent/pkg/history/mongo"
	"github.com/unikit/regent/pkg/history/mssql"
	"github.com/unikit/regent/pkg/history/mysql"
	"github.com/unikit/regent/pkg/history/neo4j"
	"github.com/unikit/regent/pkg/history/postgres"
	"github.com/unikit/regent/pkg/history/redis"
	"github.com/unikit/regent/pkg/history/sqlite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Type string

const (
	TypeSQLite   Type = "sqlite"
	TypePostgres Type = "postgres"
	TypeMySQL    Type = "mysql"
	TypeMSSQL    Type = "mssql"
	TypeRedis    Type = "redis"
	TypeNeo4j    Type = "neo4j"
	TypeMongo    Type = "mongo"
	TypeInMemory Type = "inmemory"
)

// Config holds configuration for history backends.
type Config struct {
	Type             Type
	ConnectionString string
	Username         string
	Password         string
	DBName           string
	// Limit caps the exchanges kept per caller token.
	Limit int
}

// NewFactory creates a history store based on the configuration.
func NewFactory(ctx context.Context, cfg Config) (Store, error) {
	limit := cfg.Limit
	if limit <= 0 {
		limit = consts.DefaultLimit
	}

	switch cfg.Type {
	case TypeSQLite:
		return sqlite.New(cfg.ConnectionString, limit)

	case TypePostgres:
		return postgres.New(cfg.ConnectionString, limit)

	case TypeRedis:
		opts, err := goredis.ParseURL(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redis.New(client, limit), nil

	case TypeNeo4j:
		dbName := "neo4j"
		if cfg.DBName != "" {
			dbName = cfg.DBName
		}
		return neo4j.New(cfg.ConnectionString, cfg.Username, cfg.Password, dbName, limit)

	case TypeMongo:
		opts := options.Client().ApplyURI(cfg.ConnectionString)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		dbName := consts.DefaultDBName
		if cfg.DBName != "" {
			dbName = cfg.DBName
		}
		return mongohist.New(client, dbName, consts.TableNameExchanges, limit), nil

	case TypeMySQL:
		return mysql.New(cfg.ConnectionString, limit)

	case TypeMSSQL:
		return mssql.New(cfg.ConnectionString, limit)

	case TypeInMemory, "":
		return inmemory.New(limit), nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.Type)
	}
}
