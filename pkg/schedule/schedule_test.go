package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopadmin/pkg/schedule"
)

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int64
	s := schedule.New()
	s.Every("tick", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("logged, not fatal")
	})
	s.Every("disabled", 0, func(context.Context) error {
		t.Error("zero-interval job must not run")
		return nil
	})
	assert.Equal(t, []string{"tick [5ms]"}, s.Jobs())

	s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	s.Wait()
	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}
