package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopadmin/pkg/cache"
)

func TestNilStoreIsAlwaysMiss(t *testing.T) {
	var s *cache.Store
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "products:all", []int{1, 2}))

	var got []int
	assert.False(t, s.Get(ctx, "products:all", &got))
	assert.Nil(t, got)
	assert.NoError(t, s.Del(ctx, "products:all"))
	assert.NoError(t, s.Close())
}
