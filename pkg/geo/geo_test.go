package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ctx := context.Background()

	c, err := Lookup(ctx, Static{Coordinates{Latitude: -15.79, Longitude: -47.88}})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.InDelta(t, -15.79, c.Latitude, 1e-9)

	c, err = Lookup(ctx, Denied{})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	c, err = Lookup(ctx, None{})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnavailable)

	c, err = Lookup(ctx, nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnavailable)

	c, err = Lookup(ctx, Static{Coordinates{Latitude: 91}})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStatic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Static{}.CurrentPosition(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}
