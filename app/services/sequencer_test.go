package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/app/services"
	"github.com/shashiranjanraj/shopadmin/pkg/testkit"
)

func TestFormatOrderID(t *testing.T) {
	assert.Equal(t, "2024-05-01-001", services.FormatOrderID("2024-05-01", 1))
	assert.Equal(t, "2024-05-01-042", services.FormatOrderID("2024-05-01", 42))
	assert.Equal(t, "2024-05-01-1000", services.FormatOrderID("2024-05-01", 1000))
}

func TestSequencerDayUsesOrderZone(t *testing.T) {
	late := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)

	utc := services.NewSequencer(func() time.Time { return late }, time.UTC)
	assert.Equal(t, "2024-05-01", utc.Day())

	colombo := services.NewSequencer(func() time.Time { return late }, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "2024-05-02", colombo.Day())
}

func TestSequencerNextPersistsCounter(t *testing.T) {
	db := testkit.DB(t)
	repo := repositories.NewOrderRepository(db)
	seq := services.NewSequencer(func() time.Time { return placedAt }, time.UTC)

	for _, want := range []string{"2024-05-01-001", "2024-05-01-002"} {
		var got services.Sequence
		err := repo.Transaction(bg, func(tx *repositories.OrderRepository) error {
			var err error
			got, err = seq.Next(bg, tx)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, want, got.ID)
		assert.Equal(t, "2024-05-01", got.Day)
	}

	var c models.OrderCounter
	require.NoError(t, db.First(&c, "day = ?", "2024-05-01").Error)
	assert.Equal(t, 2, c.LastSeq)
}

func TestSequencerRollbackReleasesNumber(t *testing.T) {
	db := testkit.DB(t)
	repo := repositories.NewOrderRepository(db)
	seq := services.NewSequencer(func() time.Time { return placedAt }, time.UTC)

	_ = repo.Transaction(bg, func(tx *repositories.OrderRepository) error {
		_, err := seq.Next(bg, tx)
		require.NoError(t, err)
		return assert.AnError
	})

	var got services.Sequence
	require.NoError(t, repo.Transaction(bg, func(tx *repositories.OrderRepository) error {
		var err error
		got, err = seq.Next(bg, tx)
		return err
	}))
	assert.Equal(t, "2024-05-01-001", got.ID)
}
