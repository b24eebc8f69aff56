package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rolloutlog.com/internal/config"
	"rolloutlog.com/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// One connection, or every pooled connection gets its own :memory: DB.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.ChangeLog{}, &model.ChangeLogDetails{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "service-test-secret"},
	}
}

// memDenylist is an in-memory stand-in for the Redis denylist.
type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: make(map[string]time.Time)}
}

func (d *memDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ttl > 0 {
		d.revoked[jti] = time.Now().Add(ttl)
	}
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expiry, ok := d.revoked[jti]
	return ok && time.Now().Before(expiry), nil
}
