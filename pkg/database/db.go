package database

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by DB_DRIVER / DATABASE_DSN.
func Connect() (*gorm.DB, error) {
	return Open(config.DatabaseDriver(), config.DatabaseDSN())
}

// Open opens a database for the given driver and configures the pool.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // use pkg/logger, not GORM's own
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if err := instrument(db); err != nil {
		return nil, fmt.Errorf("database: register callbacks: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// One writer at a time; a second connection would only see SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}

const startKey = "metrics:start"

// instrument feeds every statement's latency into metrics.DBQueryDuration.
func instrument(db *gorm.DB) error {
	before := func(tx *gorm.DB) { tx.InstanceSet(startKey, time.Now()) }
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startKey); ok {
				if start, ok := v.(time.Time); ok {
					metrics.ObserveDBQuery(op, start)
				}
			}
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(name string, before, after func(*gorm.DB)) error
	}{
		{"select", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(n+":after", a)
		}},
		{"insert", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(n+":after", a)
		}},
		{"update", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(n+":after", a)
		}},
		{"delete", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(n+":before", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(n+":after", a)
		}},
	}
	for _, s := range steps {
		if err := s.register("metrics:"+s.op, before, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}
