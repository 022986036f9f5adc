// Package seeders fills a fresh database with the rows an install needs.
//
//	shopadmin seed
package seeders

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"gorm.io/gorm"
)

// Func seeds one concern. It must be safe to run more than once.
type Func func(db *gorm.DB) error

type entry struct {
	name string
	fn   Func
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder; call it from init.
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll runs every seeder in registration order and stops at the first
// failure. It returns the names that ran.
func RunAll(db *gorm.DB) ([]string, error) {
	mu.Lock()
	current := append([]entry(nil), entries...)
	mu.Unlock()

	var ran []string
	for _, e := range current {
		if err := e.fn(db); err != nil {
			return ran, fmt.Errorf("seeder %q: %w", e.name, err)
		}
		logger.Info("seeder: done", "name", e.name)
		ran = append(ran, e.name)
	}
	return ran, nil
}
