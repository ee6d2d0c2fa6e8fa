package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// pingTimeout bounds the startup connectivity check so a misconfigured DSN
// fails fast instead of hanging the process.
const pingTimeout = 5 * time.Second

// Postgres holds the shared gorm handle used by the clip and program stores.
// Repositories open their transactions through this handle, so the outbox row
// and the state it describes always commit together.
type Postgres struct {
	DB *gorm.DB
}

// Connect opens the database and verifies it is reachable before returning.
func Connect(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql.DB handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Postgres{DB: gdb}, nil
}

// Close releases the underlying connection pool. Safe on a nil receiver so
// shutdown paths need no guard.
func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
