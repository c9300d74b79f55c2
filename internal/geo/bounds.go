// Package geo computes enclosing boxes over GeoJSON feature collections.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"soilviz/internal/domain"
)

// Bounds returns the minimal [[minLat,minLng],[maxLat,maxLng]] box enclosing
// the collection. Only outer rings contribute: the first ring of each Polygon
// and the first ring of each constituent polygon of a MultiPolygon. Holes lie
// inside their outer ring, so skipping them cannot shrink a correct box.
// Every other geometry type contributes zero points.
//
// A collection with no contributing points returns domain.ErrEmptyGeometry;
// an undefined min/max over an empty set never reaches the caller.
func Bounds(fc *geojson.FeatureCollection) (domain.Bounds, error) {
	minLat, minLng := math.Inf(1), math.Inf(1)
	maxLat, maxLng := math.Inf(-1), math.Inf(-1)
	found := false

	scan := func(ring orb.Ring) {
		for _, p := range ring {
			found = true
			lng, lat := p[0], p[1]
			minLat = math.Min(minLat, lat)
			maxLat = math.Max(maxLat, lat)
			minLng = math.Min(minLng, lng)
			maxLng = math.Max(maxLng, lng)
		}
	}
	outer := func(poly orb.Polygon) {
		if len(poly) > 0 {
			scan(poly[0])
		}
	}

	if fc != nil {
		for _, f := range fc.Features {
			if f == nil {
				continue
			}
			switch g := f.Geometry.(type) {
			case orb.Polygon:
				outer(g)
			case orb.MultiPolygon:
				for _, poly := range g {
					outer(poly)
				}
			}
		}
	}

	if !found {
		return domain.Bounds{}, domain.ErrEmptyGeometry
	}
	return domain.Bounds{{minLat, minLng}, {maxLat, maxLng}}, nil
}
