package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

var (
	monas    = model.Location{Name: "Monas", Latitude: -6.175392, Longitude: 106.827153}
	blokM    = model.Location{Name: "Blok M", Latitude: -6.244223, Longitude: 106.800205}
	sameSpot = model.Location{Name: "Monas again", Latitude: -6.175392, Longitude: 106.827153}
)

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 8.2, Haversine(monas.Latitude, monas.Longitude, blokM.Latitude, blokM.Longitude), 0.2)
	assert.Zero(t, Haversine(monas.Latitude, monas.Longitude, sameSpot.Latitude, sameSpot.Longitude))
	// London to Paris is roughly 344 km.
	assert.InDelta(t, 344, Haversine(51.5074, -0.1278, 48.8566, 2.3522), 2)
}

func TestHaversineProvider(t *testing.T) {
	p := NewHaversineProvider(30)

	got, err := p.DistanceAndTravelTime(context.Background(), monas, blokM)

	require.NoError(t, err)
	assert.InDelta(t, 8.2, got.DistanceKm, 0.2)
	assert.Equal(t, scheduling.TravelMinutes(got.DistanceKm, 30), got.Minutes)
}

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) DistanceAndTravelTime(_ context.Context, _, _ model.Location) (scheduling.TravelEstimate, error) {
	c.calls++
	if c.err != nil {
		return scheduling.TravelEstimate{}, c.err
	}
	return scheduling.TravelEstimate{DistanceKm: 8, Minutes: 25}, nil
}

func TestCachedProvider(t *testing.T) {
	next := &countingProvider{}
	p, err := NewCachedProvider(next, 2, logger.Nop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := p.DistanceAndTravelTime(context.Background(), monas, blokM)
		require.NoError(t, err)
		assert.Equal(t, 25, got.Minutes)
	}
	assert.Equal(t, 1, next.calls)

	_, err = p.DistanceAndTravelTime(context.Background(), blokM, monas)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "direction is part of the key")
	assert.Equal(t, 2, p.Len())
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("upstream down")
	next := &countingProvider{err: boom}
	p, err := NewCachedProvider(next, 4, logger.Nop())
	require.NoError(t, err)

	_, err = p.DistanceAndTravelTime(context.Background(), monas, blokM)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, p.Len())
}

func TestNewCachedProvider_InvalidSize(t *testing.T) {
	_, err := NewCachedProvider(&countingProvider{}, 0, logger.Nop())
	assert.Error(t, err)
}
