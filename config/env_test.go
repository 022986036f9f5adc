package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLocation(t *testing.T) {
	t.Cleanup(func() { Set("ORDER_TIMEZONE", "Local") })

	Set("ORDER_TIMEZONE", "Local")
	loc, err := OrderLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	Set("ORDER_TIMEZONE", "UTC")
	loc, err = OrderLocation()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	Set("ORDER_TIMEZONE", "Mars/Olympus_Mons")
	loc, err = OrderLocation()
	assert.Nil(t, loc)
	assert.ErrorContains(t, err, `ORDER_TIMEZONE "Mars/Olympus_Mons"`)
}
