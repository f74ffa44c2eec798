package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// withMockOpen routes Connect to sqlmock pools built by newDB.
func withMockOpen(t *testing.T, newDB func() (*sql.DB, error)) {
	t.Helper()
	prev := openDB
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Errorf("expected pgx driver, got %q", driverName)
		}
		return newDB()
	}
	resetSingleton()
	t.Cleanup(func() {
		openDB = prev
		resetSingleton()
	})
}

func mockDB(t *testing.T) (*sql.DB, error) {
	t.Helper()
	db, _, err := sqlmock.New()
	return db, err
}

func TestOptionsForProfiles(t *testing.T) {
	if got := OptionsFor(RoleLambda).MaxOpenConns; got != 2 {
		t.Fatalf("lambda MaxOpenConns = %d, want 2", got)
	}
	if got := OptionsFor(RoleMigrate).MaxOpenConns; got != 1 {
		t.Fatalf("migrate MaxOpenConns = %d, want 1", got)
	}
	if got := OptionsFor(Role("unknown")); got != OptionsFor(RoleServer) {
		t.Fatalf("unknown role should use the server profile, got %+v", got)
	}
}

func TestRuntimeRole(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if RuntimeRole() != RoleServer {
		t.Fatal("expected server role outside lambda")
	}
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "resume-builder-api")
	if RuntimeRole() != RoleLambda {
		t.Fatal("expected lambda role")
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFor(RoleServer)
	want := Options{MaxOpenConns: 7, MaxIdleConns: 3, ConnMaxLifetime: 20 * time.Minute, ConnMaxIdleTime: 45 * time.Second, PingTimeout: time.Second}
	if opts != want {
		t.Fatalf("OptionsFor = %+v, want %+v", opts, want)
	}

	withMockOpen(t, func() (*sql.DB, error) { return mockDB(t) })
	db, err := Connect(context.Background(), "postgres://ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()
	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
}

func TestOptionsFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("DB_PING_TIMEOUT", "soon")
	if got := OptionsFor(RoleLambda); got != profiles[RoleLambda] {
		t.Fatalf("expected lambda defaults, got %+v", got)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", OptionsFor(RoleServer)); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestConnectFailsOnPing(t *testing.T) {
	withMockOpen(t, func() (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			return nil, err
		}
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		return db, nil
	})
	if _, err := Connect(context.Background(), "postgres://ignored", OptionsFor(RoleServer)); err == nil {
		t.Fatal("expected ping failure")
	}
}

func TestGetSingletonSharesOnePool(t *testing.T) {
	var opens atomic.Int32
	withMockOpen(t, func() (*sql.DB, error) {
		opens.Add(1)
		return mockDB(t)
	})

	var wg sync.WaitGroup
	pools := make([]*sql.DB, 8)
	for i := range pools {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := GetSingleton(context.Background(), "postgres://ignored", OptionsFor(RoleLambda))
			if err != nil {
				t.Errorf("GetSingleton: %v", err)
				return
			}
			pools[i] = db
		}()
	}
	wg.Wait()

	for _, db := range pools[1:] {
		if db != pools[0] {
			t.Fatal("expected every caller to get the same pool")
		}
	}
	if n := opens.Load(); n != 1 {
		t.Fatalf("expected one open, got %d", n)
	}
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	var calls atomic.Int32
	withMockOpen(t, func() (*sql.DB, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("dns lookup failed")
		}
		return mockDB(t)
	})

	if _, err := GetSingleton(context.Background(), "postgres://ignored", OptionsFor(RoleLambda)); err == nil {
		t.Fatal("expected first call to fail")
	}
	db, err := GetSingleton(context.Background(), "postgres://ignored", OptionsFor(RoleLambda))
	if err != nil {
		t.Fatalf("expected second call to succeed: %v", err)
	}
	if db == nil {
		t.Fatal("expected db after retry")
	}
}
