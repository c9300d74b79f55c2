package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soilviz/internal/domain"
)

func collection(geoms ...orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range geoms {
		fc.Append(geojson.NewFeature(g))
	}
	return fc
}

func TestBounds_SquarePolygon(t *testing.T) {
	// Ring in [lng,lat] order; the box comes back transposed to [lat,lng].
	fc := collection(orb.Polygon{
		{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}},
	})

	b, err := Bounds(fc)
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{{0, 0}, {2, 2}}, b)
}

func TestBounds_Transposition(t *testing.T) {
	fc := collection(orb.Polygon{
		{{10, 50}, {12, 50}, {12, 53}, {10, 53}, {10, 50}},
	})

	b, err := Bounds(fc)
	require.NoError(t, err)
	// lng range [10,12], lat range [50,53] -> [[minLat,minLng],[maxLat,maxLng]]
	assert.Equal(t, domain.Bounds{{50, 10}, {53, 12}}, b)
}

func TestBounds_MultiPolygonFirstRings(t *testing.T) {
	fc := collection(orb.MultiPolygon{
		{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		{{{5, 5}, {6, 5}, {6, 7}, {5, 7}, {5, 5}}},
	})

	b, err := Bounds(fc)
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{{0, 0}, {7, 6}}, b)
}

func TestBounds_HolesIgnored(t *testing.T) {
	// The second ring extends past the outer ring; only the first ring counts.
	fc := collection(orb.Polygon{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{-10, -10}, {20, -10}, {20, 20}, {-10, 20}, {-10, -10}},
	})

	b, err := Bounds(fc)
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{{0, 0}, {4, 4}}, b)
}

func TestBounds_UnsupportedTypesSkipped(t *testing.T) {
	fc := collection(
		orb.Point{100, 100},
		orb.LineString{{200, 200}, {300, 300}},
		orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
	)

	b, err := Bounds(fc)
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{{0, 0}, {1, 1}}, b)
}

func TestBounds_OnlyUnsupportedTypes(t *testing.T) {
	fc := collection(orb.Point{1, 2}, orb.LineString{{0, 0}, {1, 1}})

	_, err := Bounds(fc)
	assert.ErrorIs(t, err, domain.ErrEmptyGeometry)
}

func TestBounds_EmptyCollection(t *testing.T) {
	_, err := Bounds(geojson.NewFeatureCollection())
	assert.ErrorIs(t, err, domain.ErrEmptyGeometry)
}

func TestBounds_EnvelopeProperty(t *testing.T) {
	fc := collection(
		orb.Polygon{{{3, -2}, {8, -2}, {8, 1}, {3, 1}, {3, -2}}},
		orb.MultiPolygon{{{{-1, 4}, {2, 4}, {2, 9}, {-1, 9}, {-1, 4}}}},
	)

	b, err := Bounds(fc)
	require.NoError(t, err)
	assert.LessOrEqual(t, b[0][0], b[1][0])
	assert.LessOrEqual(t, b[0][1], b[1][1])

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			for _, p := range g[0] {
				assertInside(t, b, p)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				for _, p := range poly[0] {
					assertInside(t, b, p)
				}
			}
		}
	}
}

func assertInside(t *testing.T, b domain.Bounds, p orb.Point) {
	t.Helper()
	lng, lat := p[0], p[1]
	assert.GreaterOrEqual(t, lat, b[0][0])
	assert.LessOrEqual(t, lat, b[1][0])
	assert.GreaterOrEqual(t, lng, b[0][1])
	assert.LessOrEqual(t, lng, b[1][1])
}
