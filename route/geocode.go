package route

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"googlemaps.github.io/maps"

	"go-sentinel/types"
)

// Known cities resolve without a geocoding round trip. The original client
// shipped this table for the Tamil Nadu region it served.
var cityCoords = map[string]types.Endpoint{
	"Chennai":      {Lat: 13.0827, Lng: 80.2707},
	"Coimbatore":   {Lat: 11.0168, Lng: 76.9558},
	"Madurai":      {Lat: 9.9252, Lng: 78.1198},
	"Trichy":       {Lat: 10.7905, Lng: 78.7047},
	"Salem":        {Lat: 11.6643, Lng: 78.146},
	"Dindigul":     {Lat: 10.367, Lng: 77.9803},
	"Thanjavur":    {Lat: 10.787, Lng: 79.1378},
	"Hosur":        {Lat: 12.7406, Lng: 77.8253},
	"Nagercoil":    {Lat: 8.1773, Lng: 77.434},
	"Kanchipuram":  {Lat: 12.8342, Lng: 79.7036},
	"Kanyakumari":  {Lat: 8.0883, Lng: 77.5385},
	"Karaikudi":    {Lat: 10.0667, Lng: 78.7833},
	"Cuddalore":    {Lat: 11.7447, Lng: 79.768},
	"Kumbakonam":   {Lat: 10.9595, Lng: 79.3881},
	"Tiruppur":     {Lat: 11.1085, Lng: 77.3411},
	"Ooty":         {Lat: 11.4102, Lng: 76.695},
	"Yercaud":      {Lat: 11.78, Lng: 78.2036},
	"Rameswaram":   {Lat: 9.288, Lng: 79.3127},
	"Kodaikanal":   {Lat: 10.2381, Lng: 77.4892},
	"Bangalore":    {Lat: 12.9716, Lng: 77.5946},
	"Erode":        {Lat: 11.341, Lng: 77.7172},
	"Dharapuram":   {Lat: 10.7383, Lng: 77.532},
	"Villupuram":   {Lat: 11.939, Lng: 79.493},
	"Tirunelveli":  {Lat: 8.7139, Lng: 77.7567},
	"Tuticorin":    {Lat: 8.7642, Lng: 78.1348},
}

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
)

// initMapsClient initializes and returns a singleton Google Maps client.
func initMapsClient() (*maps.Client, error) {
	var err error
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			err = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, err = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	if mapsClient == nil && err == nil {
		err = fmt.Errorf("maps client not initialized")
	}
	return mapsClient, err
}

// geocodeLocation resolves a place name to coordinates. It never fails:
// unknown names fall back to the Chennai default the original used, so
// route generation always has valid endpoints to work with.
func geocodeLocation(ctx context.Context, name string) types.Endpoint {
	if known, ok := cityCoords[name]; ok {
		known.Address = name + ", India"
		return known
	}

	client, err := initMapsClient()
	if err == nil {
		results, err := client.Geocode(ctx, &maps.GeocodingRequest{Address: name + ", India"})
		if err == nil && len(results) > 0 {
			loc := results[0].Geometry.Location
			return types.Endpoint{
				Lat:     loc.Lat,
				Lng:     loc.Lng,
				Address: results[0].FormattedAddress,
			}
		}
		if err != nil {
			log.Printf("Geocoding %q failed: %v", name, err)
		}
	}

	fallback := cityCoords["Chennai"]
	fallback.Address = fmt.Sprintf("Unknown location %q (defaulted to Chennai)", name)
	return fallback
}
