// Package migration runs versioned schema changes and tracks them in the
// shopadmin_migrations table.
//
// Each migration registers itself from an init func:
//
//	func init() {
//	    migration.Register("20240501000002_create_order_details_table", createOrderDetails{})
//	}
//
// and the CLI runs them:
//
//	shopadmin migrate            // every pending migration, one batch
//	shopadmin migrate:rollback   // the last batch, newest first
//	shopadmin migrate:status
package migration

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "shopadmin_migrations" }

type entry struct {
	name string
	m    Migration
}

var (
	registryMu sync.Mutex
	registry   []entry
)

// Register adds m under a timestamp-prefixed name. Names sort into run order.
func Register(name string, m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, e := range registry {
		if e.name == name {
			panic(fmt.Sprintf("migration: %s registered twice", name))
		}
	}
	registry = append(registry, entry{name: name, m: m})
}

func registered() []entry {
	registryMu.Lock()
	out := append([]entry(nil), registry...)
	registryMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status is one row of migrate:status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner applies registered migrations to db.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var last int
	err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&last).Error
	return last, err
}

// Up runs every pending migration as one batch and returns their names.
func (r *Runner) Up() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return nil, fmt.Errorf("migration: read batch: %w", err)
	}
	batch := last + 1

	var applied []string
	for _, e := range registered() {
		if _, ok := done[e.name]; ok {
			continue
		}
		logger.Info("migration: up", "name", e.name, "batch", batch)
		if err := e.m.Up(r.db); err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := r.db.Create(&record{Name: e.name, Batch: batch}).Error; err != nil {
			return applied, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		applied = append(applied, e.name)
	}
	return applied, nil
}

// Rollback reverts the most recent batch and returns the reverted names.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return nil, fmt.Errorf("migration: read batch: %w", err)
	}
	if last == 0 {
		return nil, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", last).Order("name desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read batch %d: %w", last, err)
	}

	byName := make(map[string]Migration)
	for _, e := range registered() {
		byName[e.name] = e.m
	}

	var reverted []string
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return reverted, fmt.Errorf("migration: %s is not registered", row.Name)
		}
		logger.Info("migration: down", "name", row.Name, "batch", last)
		if err := m.Down(r.db); err != nil {
			return reverted, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&row).Error; err != nil {
			return reverted, fmt.Errorf("migration: forget %s: %w", row.Name, err)
		}
		reverted = append(reverted, row.Name)
	}
	return reverted, nil
}

// Status lists every registered migration in run order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, e := range registered() {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}
