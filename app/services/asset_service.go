package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
	"github.com/shashiranjanraj/shopadmin/pkg/storage"
	"github.com/shashiranjanraj/shopadmin/pkg/workerpool"
)

// Upload is one incoming image file.
type Upload struct {
	Filename string // client-supplied name
	Body     io.Reader
}

// AssetService stores product images and removes them once no product
// references them. Removal is best-effort and never fails the caller.
type AssetService struct {
	disk  storage.Disk
	pool  *workerpool.Pool
	now   func() time.Time
	grace time.Duration

	pending sync.WaitGroup
}

func NewAssetService(disk storage.Disk, pool *workerpool.Pool, grace time.Duration) *AssetService {
	return &AssetService{disk: disk, pool: pool, now: time.Now, grace: grace}
}

// Store writes u as "<unix-millis>-<basename>" and returns that name.
func (s *AssetService) Store(ctx context.Context, u Upload) (string, error) {
	base := sanitizeFilename(u.Filename)
	if base == "" {
		return "", invalid("Image filename is required")
	}
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + base

	if err := s.disk.Put(ctx, name, u.Body); err != nil {
		return "", fmt.Errorf("%w: store image: %w", ErrPersistence, err)
	}
	return name, nil
}

// Reclaim schedules removal of name on the worker pool, or runs it inline
// when the pool is saturated. Empty names are ignored.
func (s *AssetService) Reclaim(ctx context.Context, name string) {
	if name == "" {
		return
	}
	log := logger.WithCtx(ctx)
	task := func() {
		defer s.pending.Done()
		// The request may be gone by the time this runs.
		if err := s.disk.Delete(context.WithoutCancel(ctx), name); err != nil {
			metrics.AssetsReclaimed.WithLabelValues("error").Inc()
			log.Warn("asset reclaim failed", "file", name, "error", err)
			return
		}
		metrics.AssetsReclaimed.WithLabelValues("ok").Inc()
		log.Debug("asset reclaimed", "file", name)
	}

	s.pending.Add(1)
	if s.pool == nil {
		task()
		return
	}
	if err := s.pool.Submit(task); err != nil {
		if !errors.Is(err, workerpool.ErrPoolFull) {
			log.Debug("asset pool unavailable, reclaiming inline", "error", err)
		}
		task()
	}
}

// Flush waits for every scheduled reclaim to finish.
func (s *AssetService) Flush() {
	s.pending.Wait()
}

// URL is the disk's public URL for name, or "" for no image.
func (s *AssetService) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.disk.URL(name)
}

// Prune deletes stored files that are not in referenced and are older than
// the grace period, and returns the names it removed.
func (s *AssetService) Prune(ctx context.Context, referenced []string) ([]string, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		keep[name] = struct{}{}
	}

	files, err := s.disk.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list images: %w", ErrPersistence, err)
	}

	cutoff := s.now().Add(-s.grace)
	var removed []string
	for _, f := range files {
		if _, ok := keep[f.Name]; ok || f.ModTime.After(cutoff) {
			continue
		}
		if err := s.disk.Delete(ctx, f.Name); err != nil {
			logger.WithCtx(ctx).Warn("asset prune failed", "file", f.Name, "error", err)
			continue
		}
		removed = append(removed, f.Name)
	}
	return removed, nil
}

// sanitizeFilename keeps only the base name of a client path, whichever
// separator the client used.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
