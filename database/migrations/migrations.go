// Package migrations registers the schema, one migration per table.
// Import it for side effects wherever migrate runs (CLI, tests).
package migrations

import (
	"github.com/shashiranjanraj/shopadmin/pkg/migration"
	"gorm.io/gorm"
)

// table migrates one model and drops its table on rollback.
type table struct {
	model any
	name  string
}

func (t table) Up(db *gorm.DB) error   { return db.AutoMigrate(t.model) }
func (t table) Down(db *gorm.DB) error { return db.Migrator().DropTable(t.name) }

func register(name string, model any, tableName string) {
	migration.Register(name, table{model: model, name: tableName})
}
