package handler

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"soilviz/internal/config"
	"soilviz/internal/domain"
	"soilviz/internal/observability"
	"soilviz/internal/service"
	"soilviz/internal/staging"
)

// Multipart form field names the frontend uploads under.
const (
	plotField   = "plot"
	sampleField = "sample"
)

// InterpolationHandler handles plot interpolation uploads.
type InterpolationHandler struct {
	svc     service.InterpolationService
	staging *config.StagingConfig
	upload  *config.UploadConfig
	metrics *observability.Metrics
}

// NewInterpolationHandler creates a new InterpolationHandler.
func NewInterpolationHandler(
	svc service.InterpolationService,
	stagingCfg *config.StagingConfig,
	uploadCfg *config.UploadConfig,
	metrics *observability.Metrics,
) *InterpolationHandler {
	return &InterpolationHandler{
		svc:     svc,
		staging: stagingCfg,
		upload:  uploadCfg,
		metrics: metrics,
	}
}

// Interpolate handles POST /api/v1/interpolate.
//
// Expects a multipart form with one or more "plot" files (a GeoJSON document
// or a .shp/.dbf pair) and exactly one "sample" file (CSV/TXT or a
// spreadsheet). All parts are staged into a per-request directory that is
// cleaned up on every exit path, then handed to the pipeline.
func (h *InterpolationHandler) Interpolate(c *gin.Context) {
	start := time.Now()
	defer func() {
		if h.metrics != nil {
			h.metrics.ObserveRequest(c.Writer.Status(), time.Since(start))
		}
	}()

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	plots := form.File[plotField]
	samples := form.File[sampleField]
	if len(plots) == 0 || len(samples) != 1 {
		HandleError(c, fmt.Errorf("%w: expected %q file(s) and exactly one %q file",
			domain.ErrMissingInput, plotField, sampleField))
		return
	}

	for _, fh := range plots {
		if err := checkUpload(fh, domain.BoundaryExtensions, h.upload.MaxBytes()); err != nil {
			HandleError(c, err)
			return
		}
	}
	if err := checkUpload(samples[0], domain.SampleExtensions, h.upload.MaxBytes()); err != nil {
		HandleError(c, err)
		return
	}

	area, err := staging.New(h.staging.Dir, h.staging.Retain)
	if err != nil {
		log.Printf("interpolationHandler.Interpolate: creating staging area: %v", err)
		HandleError(c, err)
		return
	}
	defer area.Cleanup()

	input := service.UploadInput{}
	for _, fh := range plots {
		staged, err := stagePart(area, fh)
		if err != nil {
			HandleError(c, err)
			return
		}
		input.Boundary = append(input.Boundary, staged)
	}
	staged, err := stagePart(area, samples[0])
	if err != nil {
		HandleError(c, err)
		return
	}
	input.Sample = &staged

	resp, err := h.svc.Run(c.Request.Context(), input)
	if err != nil {
		log.Printf("interpolationHandler.Interpolate: pipeline failed: %v", err)
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func checkUpload(fh *multipart.FileHeader, allowed map[string]bool, maxBytes int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if !allowed[ext] {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, fh.Filename)
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("%w: %s (%d bytes)", domain.ErrFileTooLarge, fh.Filename, fh.Size)
	}
	return nil
}

func stagePart(area *staging.Area, fh *multipart.FileHeader) (service.StagedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return service.StagedFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer func() { _ = src.Close() }()

	path, err := area.Stage(src, fh.Filename)
	if err != nil {
		return service.StagedFile{}, err
	}
	return service.StagedFile{Path: path, OriginalName: fh.Filename}, nil
}
