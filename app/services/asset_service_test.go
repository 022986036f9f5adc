package services_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopadmin/app/services"
	"github.com/shashiranjanraj/shopadmin/pkg/testkit"
	"github.com/shashiranjanraj/shopadmin/pkg/workerpool"
)

func TestStoreNamesFileByTimeAndBase(t *testing.T) {
	disk := testkit.Disk(t)
	assets := services.NewAssetService(disk, nil, 0)

	name, err := assets.Store(bg, services.Upload{Filename: "../../etc/shirt.png", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Regexp(t, `^\d{13}-shirt\.png$`, name)

	ok, err := disk.Exists(bg, name)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = assets.Store(bg, services.Upload{Filename: "/", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestReclaimRunsInlineWhenPoolIsSaturated(t *testing.T) {
	disk := testkit.Disk(t)
	pool := workerpool.New(1)
	defer pool.Shutdown()

	// Park the only worker and fill its queue.
	release := make(chan struct{})
	var parked sync.WaitGroup
	parked.Add(1)
	require.NoError(t, pool.Submit(func() { parked.Done(); <-release }))
	parked.Wait()
	for pool.Submit(func() {}) == nil {
	}

	assets := services.NewAssetService(disk, pool, 0)
	require.NoError(t, disk.Put(bg, "a.png", strings.NewReader("a")))

	assets.Reclaim(bg, "a.png")
	ok, err := disk.Exists(bg, "a.png")
	require.NoError(t, err)
	assert.False(t, ok, "reclaim should have run inline")

	close(release)
	assets.Flush()
}

func TestReclaimIgnoresEmptyName(t *testing.T) {
	assets := services.NewAssetService(testkit.Disk(t), nil, 0)
	assets.Reclaim(bg, "")
	assets.Flush()
	assert.Equal(t, "", assets.URL(""))
}
