// Package shapefile converts paired .shp/.dbf sources into GeoJSON feature
// collections.
package shapefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"soilviz/internal/domain"
)

// Decode streams the paired geometry/attribute files at shpPath and dbfPath
// into a feature collection, one record at a time and in source order. Each
// record's dbf attribute row becomes the feature's properties.
//
// The attribute file must sit beside the geometry file under the same stem
// (the staging layer guarantees this). A missing file, a malformed record, an
// unsupported shape type, or a geometry/attribute record count disagreement
// returns an error wrapping domain.ErrDecode; no partial collection is ever
// returned.
func Decode(shpPath, dbfPath string) (*geojson.FeatureCollection, error) {
	if err := checkPair(shpPath, dbfPath); err != nil {
		return nil, err
	}

	r, err := shp.Open(shpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrDecode, filepath.Base(shpPath), err)
	}
	defer func() { _ = r.Close() }()

	fields := r.Fields()
	fc := geojson.NewFeatureCollection()
	for r.Next() {
		row, shape := r.Shape()
		geom, err := shapeGeometry(shape)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrDecode, row, err)
		}
		f := geojson.NewFeature(geom)
		for i, fld := range fields {
			f.Properties[fld.String()] = r.ReadAttribute(row, i)
		}
		fc.Append(f)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrDecode, filepath.Base(shpPath), err)
	}
	if n := r.AttributeCount(); n != len(fc.Features) {
		return nil, fmt.Errorf("%w: %d geometry records but %d attribute records",
			domain.ErrDecode, len(fc.Features), n)
	}
	return fc, nil
}

func checkPair(shpPath, dbfPath string) error {
	for _, p := range []string{shpPath, dbfPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
	}
	want := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".dbf"
	if dbfPath != want {
		return fmt.Errorf("%w: attribute file %s is not paired with %s",
			domain.ErrDecode, filepath.Base(dbfPath), filepath.Base(shpPath))
	}
	return nil
}

// shapeGeometry converts one shapefile record to its GeoJSON geometry.
// Polygon parts become rings of a single polygon; the shapefile format puts
// the outer ring first, matching the GeoJSON outer-ring convention. Point and
// polyline records convert to their orb equivalents and pass through
// downstream untouched.
func shapeGeometry(s shp.Shape) (orb.Geometry, error) {
	switch v := s.(type) {
	case *shp.Polygon:
		return partsPolygon(v.Parts, v.Points), nil
	case *shp.PolygonZ:
		return partsPolygon(v.Parts, v.Points), nil
	case *shp.PolygonM:
		return partsPolygon(v.Parts, v.Points), nil
	case *shp.PolyLine:
		return partsLines(v.Parts, v.Points), nil
	case *shp.PolyLineZ:
		return partsLines(v.Parts, v.Points), nil
	case *shp.PolyLineM:
		return partsLines(v.Parts, v.Points), nil
	case *shp.Point:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointM:
		return orb.Point{v.X, v.Y}, nil
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, 0, len(v.Points))
		for _, p := range v.Points {
			mp = append(mp, orb.Point{p.X, p.Y})
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported shape type %T", s)
	}
}

func partsPolygon(parts []int32, points []shp.Point) orb.Polygon {
	rings := splitParts(parts, points)
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		poly = append(poly, orb.Ring(r))
	}
	return poly
}

func partsLines(parts []int32, points []shp.Point) orb.Geometry {
	segs := splitParts(parts, points)
	if len(segs) == 1 {
		return orb.LineString(segs[0])
	}
	mls := make(orb.MultiLineString, 0, len(segs))
	for _, s := range segs {
		mls = append(mls, orb.LineString(s))
	}
	return mls
}

// splitParts slices the flat point array at the given part offsets.
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if int(start) > end || int(start) > len(points) {
			continue
		}
		seg := make([]orb.Point, 0, end-int(start))
		for _, p := range points[start:end] {
			seg = append(seg, orb.Point{p.X, p.Y})
		}
		out = append(out, seg)
	}
	return out
}
