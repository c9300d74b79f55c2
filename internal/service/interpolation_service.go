package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"soilviz/internal/config"
	"soilviz/internal/domain"
	"soilviz/internal/geo"
	"soilviz/internal/interp"
	"soilviz/internal/shapefile"
	"soilviz/internal/tabular"
)

// StagedFile is one uploaded file already written to the request's staging
// area. OriginalName is the client-supplied filename; routing decisions key
// off its extension.
type StagedFile struct {
	Path         string
	OriginalName string
}

// Ext returns the lower-cased extension of the original name without the dot.
func (f StagedFile) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.OriginalName), "."))
}

// UploadInput groups exactly one request's boundary and sample uploads.
type UploadInput struct {
	Boundary []StagedFile
	Sample   *StagedFile
}

// InterpolationService runs the full ingest, interpolate, assemble pipeline
// for one request.
type InterpolationService interface {
	Run(ctx context.Context, input UploadInput) (*domain.InterpolationResponse, error)
}

type interpolationService struct {
	runner interp.Runner
	cfg    *config.OutputConfig
}

// NewInterpolationService creates an InterpolationService implementation.
func NewInterpolationService(runner interp.Runner, cfg *config.OutputConfig) InterpolationService {
	return &interpolationService{runner: runner, cfg: cfg}
}

// Run validates input presence, resolves the boundary into a canonical
// feature collection, normalizes the sample, computes fallback bounds,
// invokes the external process, and assembles the response. Bounds parsed
// from the process output take precedence over the computed fallback.
func (s *interpolationService) Run(ctx context.Context, input UploadInput) (*domain.InterpolationResponse, error) {
	if len(input.Boundary) == 0 || input.Sample == nil {
		return nil, domain.ErrMissingInput
	}

	fc, boundaryPath, err := s.resolveBoundary(input.Boundary)
	if err != nil {
		return nil, err
	}

	samplePath, err := s.resolveSample(input.Sample)
	if err != nil {
		return nil, err
	}

	// Fallback bounds from the boundary geometry. An empty point set is
	// terminal here: the process is never invoked for a boundary it cannot
	// outline, and no NaN box can reach the caller.
	fallback, err := geo.Bounds(fc)
	if err != nil {
		return nil, err
	}

	artifact := fmt.Sprintf("overlay-%s.svg", uuid.New())
	outputPath := filepath.Join(s.cfg.Dir, artifact)

	log.Printf("interpolationService.Run: invoking process boundary=%s sample=%s",
		filepath.Base(boundaryPath), filepath.Base(samplePath))
	res, err := s.runner.Run(ctx, boundaryPath, samplePath, outputPath)
	if err != nil {
		return nil, err
	}

	bounds := fallback
	if res.FromProcess {
		bounds = res.Bounds
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &domain.InterpolationResponse{
		OverlayURL: s.cfg.PublicBaseURL + "/output/" + artifact,
		Bounds:     bounds,
		GeoJSON:    fc,
		Warnings:   warnings,
	}, nil
}

// resolveBoundary selects the boundary source. A direct GeoJSON upload wins
// and is used verbatim, its staged path passed straight through. Otherwise a
// complete .shp/.dbf pair is required; the decoded collection is written
// beside the geometry file with the extension swapped for .geojson.
func (s *interpolationService) resolveBoundary(files []StagedFile) (*geojson.FeatureCollection, string, error) {
	var direct, shpFile, dbfFile *StagedFile
	for i := range files {
		switch files[i].Ext() {
		case "geojson", "json":
			if direct == nil {
				direct = &files[i]
			}
		case "shp":
			if shpFile == nil {
				shpFile = &files[i]
			}
		case "dbf":
			if dbfFile == nil {
				dbfFile = &files[i]
			}
		}
	}

	if direct != nil {
		raw, err := os.ReadFile(direct.Path)
		if err != nil {
			return nil, "", fmt.Errorf("read boundary %s: %w", direct.OriginalName, err)
		}
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, "", fmt.Errorf("%w: parsing %s: %v", domain.ErrDecode, direct.OriginalName, err)
		}
		return fc, direct.Path, nil
	}

	if shpFile == nil || dbfFile == nil {
		return nil, "", fmt.Errorf("%w: boundary needs a .geojson file or a .shp/.dbf pair", domain.ErrMissingInput)
	}

	shpPath, dbfPath, err := pairLayout(shpFile.Path, dbfFile.Path)
	if err != nil {
		return nil, "", err
	}
	fc, err := shapefile.Decode(shpPath, dbfPath)
	if err != nil {
		return nil, "", err
	}

	outPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".geojson"
	raw, err := json.Marshal(fc)
	if err != nil {
		return nil, "", fmt.Errorf("marshal boundary collection: %w", err)
	}
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		return nil, "", fmt.Errorf("write converted boundary: %w", err)
	}
	return fc, outPath, nil
}

// pairLayout renames the staged pair so the attribute file sits beside the
// geometry file under the same stem with lower-case extensions, the layout
// the shapefile reader derives its companion path from.
func pairLayout(shpPath, dbfPath string) (string, string, error) {
	stem := strings.TrimSuffix(shpPath, filepath.Ext(shpPath))
	wantShp, wantDbf := stem+".shp", stem+".dbf"
	if shpPath != wantShp {
		if err := os.Rename(shpPath, wantShp); err != nil {
			return "", "", fmt.Errorf("stage geometry file: %w", err)
		}
	}
	if dbfPath != wantDbf {
		if err := os.Rename(dbfPath, wantDbf); err != nil {
			return "", "", fmt.Errorf("stage attribute file: %w", err)
		}
	}
	return wantShp, wantDbf, nil
}

// resolveSample normalizes spreadsheet samples to CSV; anything else is
// passed through on its staged path unchanged.
func (s *interpolationService) resolveSample(f *StagedFile) (string, error) {
	if !tabular.IsSpreadsheet(f.OriginalName) {
		return f.Path, nil
	}
	path, err := tabular.Normalize(f.Path)
	if err != nil {
		return "", fmt.Errorf("normalize sample %s: %w", f.OriginalName, err)
	}
	return path, nil
}
