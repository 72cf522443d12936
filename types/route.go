package types

// Endpoint is one geocoded end of a route.
type Endpoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// RouteSummary is the well-defined shape of a planned route. The emergency
// flow copies it at the moment a session is raised, so later edits to the
// active route never alter an in-flight alert.
type RouteSummary struct {
	From          Endpoint `json:"from"`
	To            Endpoint `json:"to"`
	TransportMode string   `json:"transportMode"`
	// DurationMinutes and DistanceKM come from the routing provider, or from
	// the fixed fallback values when routing fails.
	DurationMinutes int     `json:"duration"`
	DistanceKM      float64 `json:"distance"`
	// Directions is a polyline of [lat, lng] pairs.
	Directions [][]float64 `json:"directions,omitempty"`
	IsFallback bool        `json:"isFallback,omitempty"`
}
