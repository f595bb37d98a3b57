package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"coursegen/internal/store"
)

func testDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := store.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func okPing(context.Context) (time.Duration, error) { return time.Millisecond, nil }

type generateCall struct {
	System string
	User   string
	Opts   GenerateOptions
}

// fakeGenerator replays scripted outputs in order; the last one repeats.
type fakeGenerator struct {
	mu      sync.Mutex
	outputs []string
	errs    []error
	calls   []generateCall
}

func (f *fakeGenerator) Generate(_ context.Context, system, user string, opts GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.calls)
	f.calls = append(f.calls, generateCall{System: system, User: user, Opts: opts})

	var err error
	if len(f.errs) > 0 {
		err = f.errs[min(i, len(f.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(f.outputs) == 0 {
		return "", nil
	}
	return f.outputs[min(i, len(f.outputs)-1)], nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
