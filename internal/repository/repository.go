package repository

import (
	"context"
	"fmt"

	"pp_quest/internal/model"
	"pp_quest/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrMalformedBlob  = errors.New("malformed stored blob")
	ErrUnknownBackend = errors.New("unknown storage driver")
)

const (
	DriverSQLite   = "sqlite"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Store persists the profile and the active quest set as two independent JSON blobs.
type Store interface {
	LoadProfile(ctx context.Context) (*model.UserProfile, error)
	LoadQuests(ctx context.Context) ([]model.Quest, error)
	SaveState(ctx context.Context, profile *model.UserProfile, quests []model.Quest) error
	Close() error
}

type Config struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	RedisAddr     string `mapstructure:"redisAddr"`
	RedisPassword string `mapstructure:"redisPassword"`
	RedisDB       int    `mapstructure:"redisDB"`
}

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverRedis:
		return NewRedisStore(ctx, cfg)
	case DriverSQLite, DriverPgx, DriverPostgres:
		repo, err := New(cfg)
		if err != nil {
			return nil, err
		}
		if err := repo.InitSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "driver %q", cfg.Driver)
	}
}

type Repository struct {
	db          *sqlx.DB
	placeholder squirrel.PlaceholderFormat
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

func New(cfg Config) (*Repository, error) {
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var placeholder squirrel.PlaceholderFormat = squirrel.Dollar
	if cfg.Driver == DriverSQLite {
		// An in-memory database lives in a single connection.
		db.SetMaxOpenConns(1)
		placeholder = squirrel.Question
	}

	logger.Logger().Info("Connected to database successfully", zap.String("driver", cfg.Driver))

	return NewWithDB(db, placeholder), nil
}

func NewWithDB(db *sqlx.DB, placeholder squirrel.PlaceholderFormat) *Repository {
	return &Repository{
		db:          db,
		placeholder: placeholder,
	}
}

func (c *Config) DataSourceName() (string, error) {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" || c.Path == ":memory:" {
			return ":memory:", nil
		}
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.Path), nil
	case DriverPgx, DriverPostgres:
		return c.GetDatabaseURL(), nil
	default:
		return "", errors.Wrapf(ErrUnknownBackend, "driver %q", c.Driver)
	}
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}
