package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"golang.org/x/sync/singleflight"

	"resume-builder/internal/shared/telemetry"
)

// Role names the kind of process holding the pool.
type Role string

const (
	RoleServer  Role = "server"
	RoleLambda  Role = "lambda"
	RoleMigrate Role = "migrate"
)

// Options controls the pool and the connect-time ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var profiles = map[Role]Options{
	// Lambda runs one request per instance; keep the pool tiny.
	RoleLambda:  {MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxIdleTime: 30 * time.Second, ConnMaxLifetime: 15 * time.Minute, PingTimeout: 3 * time.Second},
	RoleServer:  {MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
	RoleMigrate: {MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
}

// OptionsFor returns the pool profile of role with DB_* overrides applied.
func OptionsFor(role Role) Options {
	opts, ok := profiles[role]
	if !ok {
		opts = profiles[RoleServer]
	}
	return OptionsFromEnv(opts)
}

// RuntimeRole is RoleLambda inside AWS Lambda and RoleServer otherwise.
func RuntimeRole() Role {
	if IsLambdaRuntime() {
		return RoleLambda
	}
	return RoleServer
}

// IsLambdaRuntime reports whether the process runs in AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// OptionsFromEnv overrides defaults with DB_* env vars if present.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	for key, dst := range map[string]*int{
		"DB_MAX_OPEN_CONNS": &opts.MaxOpenConns,
		"DB_MAX_IDLE_CONNS": &opts.MaxIdleConns,
	} {
		if v, ok := readEnv(key, strconv.Atoi); ok {
			*dst = v
		}
	}
	for key, dst := range map[string]*time.Duration{
		"DB_CONN_MAX_LIFETIME":  &opts.ConnMaxLifetime,
		"DB_CONN_MAX_IDLE_TIME": &opts.ConnMaxIdleTime,
		"DB_PING_TIMEOUT":       &opts.PingTimeout,
	} {
		if v, ok := readEnv(key, time.ParseDuration); ok {
			*dst = v
		}
	}
	return opts
}

var openDB = sql.Open

// Connect opens a pgx-backed *sql.DB and pings it. Callers share the pool.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := db.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return db, nil
}

var (
	shared     sync.Mutex
	sharedDB   *sql.DB
	sharedInit singleflight.Group
)

// GetSingleton returns the process-wide pool. Concurrent first callers share
// one connect attempt; a failed attempt is not cached.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	shared.Lock()
	db := sharedDB
	shared.Unlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := sharedInit.Do("db", func() (any, error) {
		shared.Lock()
		if sharedDB != nil {
			defer shared.Unlock()
			return sharedDB, nil
		}
		shared.Unlock()

		db, err := Connect(ctx, databaseURL, opts)
		if err != nil {
			return nil, err
		}
		shared.Lock()
		sharedDB = db
		shared.Unlock()
		telemetry.Info("db.singleton_init", map[string]any{"lambda": IsLambdaRuntime()})
		return db, nil
	})
	if err != nil {
		telemetry.Error("db.singleton_init_failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	return v.(*sql.DB), nil
}

func resetSingleton() {
	shared.Lock()
	sharedDB = nil
	shared.Unlock()
}

func applyOptions(db *sql.DB, opts Options) {
	base := profiles[RoleServer]
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = base.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = base.MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = base.ConnMaxLifetime
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func readEnv[T any](key string, parse func(string) (T, error)) (T, bool) {
	var zero T
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return zero, false
	}
	v, err := parse(raw)
	if err != nil {
		telemetry.Warn("db.invalid_env", map[string]any{"key": key, "error": err.Error()})
		return zero, false
	}
	return v, true
}
