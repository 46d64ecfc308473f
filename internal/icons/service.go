package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
)

// IconSink receives the manifest icon list after a run.
type IconSink interface {
	ReplaceIcons(ctx context.Context, icons []models.PWAIcon) error
}

// Service turns an uploaded source image into the stored icon set.
type Service interface {
	Regenerate(ctx context.Context, source io.Reader) (*RegenerateResult, error)
}

// FailureDTO names an artifact that was skipped.
type FailureDTO struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Purpose string `json:"purpose"`
	Format  string `json:"format"`
	Error   string `json:"error"`
}

// RegenerateResult is returned to the admin panel. Partial is true when at
// least one artifact failed.
type RegenerateResult struct {
	Icons    []models.PWAIcon `json:"icons"`
	Failures []FailureDTO     `json:"failures"`
	Partial  bool             `json:"partial"`
	Expected int              `json:"expected"`
}

type service struct {
	pipeline *Pipeline
	sink     IconSink
	maxBytes int64
	logg     *logger.Logger
}

func NewService(pipeline *Pipeline, sink IconSink, maxBytes int64, logg *logger.Logger) (Service, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("icon pipeline required")
	}
	if sink == nil {
		return nil, fmt.Errorf("icon sink required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max source size must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{pipeline: pipeline, sink: sink, maxBytes: maxBytes, logg: logg}, nil
}

// Regenerate decodes source, runs the pipeline and stores the URLs of the
// artifacts that made it. When nothing succeeded the stored list is left
// alone.
func (s *service) Regenerate(ctx context.Context, source io.Reader) (*RegenerateResult, error) {
	src, err := s.decode(source)
	if err != nil {
		return nil, err
	}

	run, err := s.pipeline.Run(ctx, src)
	if err != nil {
		if errors.Is(err, errEmptySource) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "source image is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "icon generation cancelled")
	}

	result := &RegenerateResult{
		Icons:    ManifestIcons(run.Artifacts),
		Failures: make([]FailureDTO, 0, len(run.Failures)),
		Partial:  run.Partial(),
		Expected: run.Expected,
	}
	for _, f := range run.Failures {
		result.Failures = append(result.Failures, FailureDTO{
			Name:    f.Name(),
			Size:    f.Size,
			Purpose: string(f.Purpose),
			Format:  string(f.Format),
			Error:   f.Err.Error(),
		})
	}

	if len(result.Icons) == 0 {
		s.logg.Error(ctx, "pwa icon run produced no artifacts", run.Err())
		return result, nil
	}
	if err := s.sink.ReplaceIcons(ctx, result.Icons); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) decode(source io.Reader) (image.Image, error) {
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	data, err := io.ReadAll(io.LimitReader(source, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodePayloadTooLarge, fmt.Sprintf("file must be at most %d bytes", s.maxBytes))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "source must be a png, jpeg, gif or webp image")
	}
	return img, nil
}

// ManifestIcons converts uploaded artifacts into manifest entries.
func ManifestIcons(artifacts []Artifact) []models.PWAIcon {
	out := make([]models.PWAIcon, 0, len(artifacts))
	for _, a := range artifacts {
		if a.URL == "" {
			continue
		}
		out = append(out, models.PWAIcon{
			Src:     a.URL,
			Sizes:   a.SizesAttr(),
			Type:    a.Format.ContentType(),
			Purpose: string(a.Purpose),
		})
	}
	return out
}
