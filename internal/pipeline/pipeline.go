// Package pipeline runs one wrap job end to end: load the buffer dump,
// wrap it, save the result, then write the optional preview and report.
package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"alphawrap"
	"alphawrap/internal/config"
	"alphawrap/internal/meshio"
	"alphawrap/internal/postprocess"
	"alphawrap/internal/raster"
	"alphawrap/internal/report"
)

// Run executes the job described by cfg, which must already be resolved.
// The returned report is filled in as far as the job got, even on error.
func Run(cfg config.Config, log *zap.Logger) (report.Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rep := report.Report{
		Input:   cfg.Input,
		Output:  cfg.Output,
		Preview: cfg.Preview,
		Alpha:   cfg.Alpha,
		Offset:  cfg.Offset,
	}

	m, err := meshio.Load(cfg.Input)
	if err != nil {
		return rep, err
	}
	rep.Before = report.Stats(m)
	log.Info("loaded mesh",
		zap.String("path", cfg.Input),
		zap.Int("vertices", rep.Before.Vertices),
		zap.Int("triangles", rep.Before.Triangles))

	start := time.Now()
	err = alphawrap.WrapTriMesh(m, cfg.Alpha, cfg.Offset,
		alphawrap.WithLogger(log),
		alphawrap.WithGrid(cfg.CellsPerAlpha, cfg.MaxGridPoints),
		alphawrap.WithObserver(rep.Add))
	rep.ElapsedMS = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		return rep, err
	}
	rep.After = report.Stats(m)
	rep.Topology = report.Topology(m.Indices)

	if err := meshio.Save(cfg.Output, m); err != nil {
		return rep, err
	}

	if cfg.Preview != "" {
		img := Preview(m, cfg)
		if err := SaveWebP(cfg.Preview, img); err != nil {
			return rep, err
		}
		log.Debug("wrote preview", zap.String("path", cfg.Preview))
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, rep); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// Preview renders m through cfg's camera and frames the supersampled render
// onto a cfg.RenderSize canvas.
func Preview(m *alphawrap.TriMesh, cfg config.Config) *image.NRGBA {
	img := raster.RenderMesh(m.Vertices, m.Indices, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Camera:      cfg.Camera(),
	})
	return postprocess.Frame(img, cfg.RenderSize, cfg.FillRatio)
}

// SaveWebP encodes img as lossless WebP at path.
func SaveWebP(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("pipeline: WebP encode: %w", err)
	}
	return f.Close()
}
