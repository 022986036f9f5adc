package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/pkg/testkit"
)

// dryRun opens a dialector that renders SQL without connecting.
func dryRun(t *testing.T, d gorm.Dialector) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(d, &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestCounterStatementsPerDialect(t *testing.T) {
	tests := []struct {
		name   string
		db     func(t *testing.T) *gorm.DB
		upsert string
	}{
		{
			name: "mysql",
			db: func(t *testing.T) *gorm.DB {
				return dryRun(t, mysql.New(mysql.Config{
					DSN:                       "shop:shop@tcp(127.0.0.1:3306)/shop?parseTime=true",
					SkipInitializeWithVersion: true,
				}))
			},
			upsert: "ON DUPLICATE KEY UPDATE",
		},
		{
			name: "postgres",
			db: func(t *testing.T) *gorm.DB {
				return dryRun(t, postgres.New(postgres.Config{
					DSN: "host=127.0.0.1 user=shop dbname=shop sslmode=disable",
				}))
			},
			upsert: "ON CONFLICT",
		},
		{
			name: "sqlserver",
			db: func(t *testing.T) *gorm.DB {
				return dryRun(t, sqlserver.New(sqlserver.Config{
					DSN: "sqlserver://sa:pw@127.0.0.1:1433?database=shop",
				}))
			},
			upsert: "MERGE",
		},
		{
			name: "sqlite",
			db: func(t *testing.T) *gorm.DB {
				return dryRun(t, sqlite.Open("file::memory:"))
			},
			upsert: "ON CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := tt.db(t)

			ensure := db.ToSQL(func(tx *gorm.DB) *gorm.DB { return ensureCounter(tx, "2024-05-01") })
			bump := db.ToSQL(func(tx *gorm.DB) *gorm.DB { return bumpCounter(tx, "2024-05-01") })

			assert.Contains(t, ensure, tt.upsert)
			assert.Contains(t, ensure, "order_counters")
			assert.Contains(t, bump, "last_seq + 1")
			assert.Contains(t, bump, "2024-05-01")
			for _, sql := range []string{ensure, bump} {
				assert.NotContains(t, sql, "FOR UPDATE")
				assert.NotContains(t, sql, "UPDLOCK")
			}
		})
	}
}

func TestBumpCounter(t *testing.T) {
	db := testkit.DB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.BumpCounter(ctx, "2024-05-01")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := repo.BumpCounter(ctx, "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, 1, got, "each day counts on its own")

	var rows int64
	require.NoError(t, db.Model(&models.OrderCounter{}).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestRaiseCounterOnlyMovesForward(t *testing.T) {
	db := testkit.DB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	_, err := repo.BumpCounter(ctx, "2024-05-01")
	require.NoError(t, err)

	require.NoError(t, repo.RaiseCounter(ctx, "2024-05-01", 7))
	require.NoError(t, repo.RaiseCounter(ctx, "2024-05-01", 4))

	next, err := repo.BumpCounter(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 8, next)
}
