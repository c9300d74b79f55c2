package domain

import "github.com/paulmach/orb/geojson"

// Bounds is a [[minLat,minLng],[maxLat,maxLng]] box. GeoJSON coordinates are
// [lng,lat]; the box transposes to [lat,lng], which is what the map frontend
// consumes. The transposition is load-bearing and must not be "fixed".
type Bounds [2][2]float64

// DefaultBounds is used when the interpolation process emits no parsable
// BOUNDS_JSON marker. It has no geographic meaning; callers prefer bounds
// computed from the boundary geometry whenever the marker is absent.
var DefaultBounds = Bounds{{0, 0}, {100, 100}}

// InterpolationResult is the parsed output of one external process run.
// FromProcess is true only when Bounds came from a BOUNDS_JSON marker line;
// otherwise Bounds holds DefaultBounds.
type InterpolationResult struct {
	Bounds      Bounds
	FromProcess bool
	Warnings    []string
}

// InterpolationResponse is the success payload for an interpolation request.
type InterpolationResponse struct {
	OverlayURL string                     `json:"overlayUrl"`
	Bounds     Bounds                     `json:"bounds"`
	GeoJSON    *geojson.FeatureCollection `json:"geojson"`
	Warnings   []string                   `json:"warnings"`
}

// Allowed upload extensions per form slot, lower-case and without the dot.
var (
	BoundaryExtensions = map[string]bool{
		"geojson": true,
		"json":    true,
		"shp":     true,
		"dbf":     true,
	}
	SampleExtensions = map[string]bool{
		"csv":  true,
		"txt":  true,
		"xlsx": true,
		"xlsm": true,
	}
)
