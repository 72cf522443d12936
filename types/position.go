package types

import "time"

// Position is one accepted location sample for a tracked subject.
// It is immutable once captured; a newer sample replaces it wholesale.
type Position struct {
	Latitude   float64   `firestore:"lat" json:"lat"`
	Longitude  float64   `firestore:"lng" json:"lng"`
	CapturedAt time.Time `firestore:"recordedAt" json:"recorded_at"`
}

// Valid reports whether the coordinates are inside the WGS84 range.
// Samples failing this are dropped before they reach storage.
func (p Position) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Subject is a tracked user, stored for the police search flow.
type Subject struct {
	ID       string    `firestore:"-" json:"userId"`
	Name     string    `firestore:"name" json:"name"`
	Phone    string    `firestore:"phone,omitempty" json:"phone,omitempty"`
	LastSeen time.Time `firestore:"lastSeen" json:"lastSeen"`
}
