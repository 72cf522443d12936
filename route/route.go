package route

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"go-sentinel/types"
)

const defaultOSRMBaseURL = "https://router.project-osrm.org"

// Fallback route constants, used when the routing provider is unreachable.
const (
	fallbackDurationMinutes = 60
	fallbackDistanceKM      = 50
)

var osrmProfiles = map[string]string{
	"car":   "driving",
	"bus":   "driving",
	"train": "driving",
	"walk":  "walking",
	"bike":  "cycling",
}

// Planner produces RouteSummary values from an OSRM-compatible routing
// service, degrading to a straight-line route when the service fails.
type Planner struct {
	BaseURL string
	Client  *http.Client
}

func NewPlanner(baseURL string) *Planner {
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	return &Planner{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// GenerateRoute geocodes both endpoints and asks the routing service for
// the path between them. It always returns a usable summary: failures
// produce the fixed fallback route instead of an error, the behavior the
// original navigation flow had.
func (p *Planner) GenerateRoute(ctx context.Context, fromName, toName, mode string) types.RouteSummary {
	from := geocodeLocation(ctx, fromName)
	to := geocodeLocation(ctx, toName)

	summary, err := p.queryOSRM(ctx, from, to, mode)
	if err != nil {
		log.Printf("Route generation via OSRM failed, using fallback: %v", err)
		return fallbackRoute(from, to, mode)
	}
	return summary
}

func (p *Planner) queryOSRM(ctx context.Context, from, to types.Endpoint, mode string) (types.RouteSummary, error) {
	profile, ok := osrmProfiles[mode]
	if !ok {
		profile = "driving"
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f", p.BaseURL, profile, from.Lng, from.Lat, to.Lng, to.Lat)
	query := url.Values{}
	query.Set("overview", "full")
	query.Set("geometries", "geojson")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return types.RouteSummary{}, fmt.Errorf("building routing request: %w", err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return types.RouteSummary{}, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.RouteSummary{}, fmt.Errorf("decoding routing response: %w", err)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return types.RouteSummary{}, fmt.Errorf("routing failed: %s", out.Message)
	}

	r := out.Routes[0]
	// OSRM geometry is [lng, lat]; the map renders [lat, lng].
	directions := make([][]float64, 0, len(r.Geometry.Coordinates))
	for _, c := range r.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		directions = append(directions, []float64{c[1], c[0]})
	}

	return types.RouteSummary{
		From:            from,
		To:              to,
		TransportMode:   mode,
		DurationMinutes: int(r.Duration/60 + 0.5),
		DistanceKM:      r.Distance / 1000,
		Directions:      directions,
	}, nil
}

func fallbackRoute(from, to types.Endpoint, mode string) types.RouteSummary {
	return types.RouteSummary{
		From:            from,
		To:              to,
		TransportMode:   mode,
		DurationMinutes: fallbackDurationMinutes,
		DistanceKM:      fallbackDistanceKM,
		Directions: [][]float64{
			{from.Lat, from.Lng},
			{to.Lat, to.Lng},
		},
		IsFallback: true,
	}
}
