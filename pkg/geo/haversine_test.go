package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundseekers/discovery-backend/pkg/geo"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expectedKm             float64
	}{
		{
			name: "identical points",
			lat1: -34.6037, lon1: -58.3816,
			lat2: -34.6037, lon2: -58.3816,
			expectedKm: 0,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 1,
			expectedKm: geo.EarthRadiusKm * math.Pi / 180,
		},
		{
			name: "pole to pole",
			lat1: 90, lon1: 0,
			lat2: -90, lon2: 0,
			expectedKm: geo.EarthRadiusKm * math.Pi,
		},
		{
			name: "buenos aires to la plata",
			lat1: -34.6037, lon1: -58.3816,
			lat2: -34.9215, lon2: -57.9545,
			expectedKm: 52.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expectedKm, got, 0.5)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	forward := geo.Distance(-34.6037, -58.3816, -32.9442, -60.6505)
	backward := geo.Distance(-32.9442, -60.6505, -34.6037, -58.3816)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestWithinRadius_BoundaryInclusive(t *testing.T) {
	distance := geo.Distance(0, 0, 0, 1)

	assert.True(t, geo.WithinRadius(0, 0, 0, 1, distance))
	assert.True(t, geo.WithinRadius(0, 0, 0, 1, distance+0.001))
	assert.False(t, geo.WithinRadius(0, 0, 0, 1, distance-0.001))
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, geo.ValidateCoordinates(0, 0))
	assert.NoError(t, geo.ValidateCoordinates(90, 180))
	assert.NoError(t, geo.ValidateCoordinates(-90, -180))

	for _, tc := range []struct{ lat, lon float64 }{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	} {
		err := geo.ValidateCoordinates(tc.lat, tc.lon)
		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	}
}

func TestValidateRadius(t *testing.T) {
	assert.NoError(t, geo.ValidateRadius(0))
	assert.NoError(t, geo.ValidateRadius(50))

	err := geo.ValidateRadius(-1)
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.Error(t, geo.ValidateRadius(math.NaN()))
}
