// Package geo provides great-circle distance math for proximity search.
// All distances are kilometers; coordinates are WGS84 degrees.
package geo

import (
	"math"

	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the haversine distance in kilometers between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// WithinRadius reports whether the distance between the query point and the
// target is at most radiusKm. Boundary equality is inclusive.
func WithinRadius(lat, lon, targetLat, targetLon, radiusKm float64) bool {
	return Distance(lat, lon, targetLat, targetLon) <= radiusKm
}

// ValidateCoordinates checks that a point is a valid WGS84 coordinate.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius checks that a search radius is non-negative.
func ValidateRadius(radiusKm float64) error {
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return apperrors.NewValidationError("radius must be non-negative")
	}
	return nil
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
