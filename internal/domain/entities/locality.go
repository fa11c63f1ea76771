package entities

// Locality represents a city or neighborhood events are grouped under
type Locality struct {
	ID       string   `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	Province string   `json:"province" db:"province"`
	Centroid Location `json:"centroid" db:"-"`
}
