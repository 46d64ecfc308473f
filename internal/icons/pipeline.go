package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/metrics"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage"
)

// Artifact is one generated icon. URL is set once the upload succeeded.
type Artifact struct {
	Spec
	Key   string
	URL   string
	Bytes int
}

// Failure describes an artifact that could not be produced or uploaded.
type Failure struct {
	Spec
	Key string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name(), f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of a full run. A run is partial when some artifacts
// failed; that is not an error for the caller.
type Result struct {
	Artifacts []Artifact
	Failures  []Failure
	Expected  int
}

// Partial reports whether fewer artifacts than expected were produced.
func (r Result) Partial() bool {
	return len(r.Artifacts) < r.Expected
}

// Err combines every artifact failure, or returns nil.
func (r Result) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// Pipeline derives the PWA icon set from one source image.
type Pipeline struct {
	store    storage.ObjectStore
	opts     Options
	encoders map[Format]Encoder
	logg     *logger.Logger
	metrics  *metrics.IconMetrics
}

// Option customises a Pipeline.
type Option func(*Pipeline)

func WithEncoder(format Format, enc Encoder) Option {
	return func(p *Pipeline) { p.encoders[format] = enc }
}

func WithMetrics(m *metrics.IconMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func NewPipeline(store storage.ObjectStore, opts Options, logg *logger.Logger, options ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if logg == nil {
		logg = logger.Nop()
	}
	p := &Pipeline{
		store:    store,
		opts:     opts,
		encoders: DefaultEncoders(),
		logg:     logg,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// Matrix lists every artifact a run attempts, in yield order.
func (p *Pipeline) Matrix() []Spec {
	return Matrix(p.opts.Sizes, p.opts.Formats)
}

// Key returns the object key of spec, including the configured prefix.
func (p *Pipeline) Key(spec Spec) string {
	return storage.JoinKey(p.opts.ObjectPrefix, spec.Name())
}

// Generate lazily produces the icon set. Sizes are processed one after the
// other; the encode+upload operations of one size run concurrently and are
// yielded in matrix order once the size completes. A failed artifact is
// yielded with its error and the run continues. Breaking out of the loop or
// cancelling ctx stops the run before the next size.
func (p *Pipeline) Generate(ctx context.Context, src image.Image) iter.Seq2[Artifact, error] {
	return func(yield func(Artifact, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for _, size := range p.opts.Sizes {
			if ctx.Err() != nil {
				return
			}
			for _, out := range p.generateSize(ctx, src, size) {
				if !yield(out.artifact, out.err) {
					return
				}
			}
		}
	}
}

type outcome struct {
	artifact Artifact
	err      error
}

func (p *Pipeline) generateSize(ctx context.Context, src image.Image, size int) []outcome {
	specs := sizeSpecs(size, p.opts.Formats)
	results := make([]outcome, len(specs))
	images := variants(src, size, p.opts.PaddingRatio, p.opts.Background)

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Go(func() {
			artifact, err := p.produce(ctx, spec, images[spec.Purpose])
			if err != nil {
				failure := Failure{Spec: spec, Key: artifact.Key, Err: err}
				p.reportFailure(ctx, failure)
				err = failure
			}
			p.metrics.ObserveArtifact(string(spec.Purpose), string(spec.Format), err)
			results[i] = outcome{artifact: artifact, err: err}
		})
	}
	wg.Wait()
	return results
}

func (p *Pipeline) produce(ctx context.Context, spec Spec, img image.Image) (Artifact, error) {
	artifact := Artifact{Spec: spec, Key: p.Key(spec)}
	if err := ctx.Err(); err != nil {
		return artifact, err
	}
	payload, err := encode(p.encoders[spec.Format], img, spec.Format)
	if err != nil {
		return artifact, err
	}
	artifact.Bytes = len(payload)

	url, err := p.store.Upload(ctx, artifact.Key, spec.Format.ContentType(), bytes.NewReader(payload))
	if err != nil {
		return artifact, fmt.Errorf("upload: %w", err)
	}
	artifact.URL = url
	return artifact, nil
}

func (p *Pipeline) reportFailure(ctx context.Context, f Failure) {
	logCtx := p.logg.WithFields(ctx, map[string]any{
		"icon":  f.Name(),
		"key":   f.Key,
		"error": f.Err.Error(),
	})
	p.logg.Warn(logCtx, "pwa icon artifact failed")
}

// Run drains Generate and collects the outcome. The returned error is only
// set when the run was cut short by ctx; artifact failures live in the
// Result.
func (p *Pipeline) Run(ctx context.Context, src image.Image) (Result, error) {
	if src == nil || src.Bounds().Empty() {
		return Result{}, errEmptySource
	}

	started := time.Now()
	result := Result{Expected: len(p.Matrix())}
	for artifact, err := range p.Generate(ctx, src) {
		if err != nil {
			var failure Failure
			if !errors.As(err, &failure) {
				failure = Failure{Spec: artifact.Spec, Key: artifact.Key, Err: err}
			}
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Artifacts = append(result.Artifacts, artifact)
	}

	runResult := "complete"
	switch {
	case ctx.Err() != nil:
		runResult = "cancelled"
	case result.Partial():
		runResult = "partial"
	}
	p.metrics.ObserveRun(runResult, time.Since(started))

	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"icons_ok":     len(result.Artifacts),
		"icons_failed": len(result.Failures),
		"icons_total":  result.Expected,
		"result":       runResult,
	}), "pwa icon run finished")

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
