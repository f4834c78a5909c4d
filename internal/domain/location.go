package domain

import "time"

type LocationAccuracy string

const (
	LocationAccuracyHigh   LocationAccuracy = "high"
	LocationAccuracyMedium LocationAccuracy = "medium"
	LocationAccuracyLow    LocationAccuracy = "low"
)

// Location is supplied by the map/geolocation component as-is.
type Location struct {
	Lat      float64          `json:"lat"`
	Lng      float64          `json:"lng"`
	Address  string           `json:"address"`
	Accuracy LocationAccuracy `json:"accuracy"`
}

type FavoriteLocation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}
