package alphawrap

import (
	"go.uber.org/zap"

	"alphawrap/internal/extract"
	"alphawrap/internal/gridwrap"
)

// Dropped reports a non-triangular face that was left out of the output.
type Dropped = extract.Dropped

// Observer receives dropped-face diagnostics synchronously, in face order.
type Observer func(Dropped)

// Option configures a single WrapTriMesh call.
type Option func(*settings)

type settings struct {
	wrapper  Wrapper
	observer Observer
	logger   *zap.Logger
	grid     gridwrap.Options

	// beforeSwap runs after the new buffers are built and before they are
	// installed. Tests use it to inject faults.
	beforeSwap func() error
}

// WithWrapper replaces the built-in wrapping algorithm.
func WithWrapper(w Wrapper) Option {
	return func(s *settings) { s.wrapper = w }
}

// WithObserver registers a callback for dropped-face diagnostics.
func WithObserver(fn Observer) Option {
	return func(s *settings) { s.observer = fn }
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithGrid tunes the built-in wrapper's sampling lattice. Zero values keep
// the defaults. It has no effect together with WithWrapper.
func WithGrid(cellsPerAlpha float64, maxGridPoints int) Option {
	return func(s *settings) {
		s.grid.CellsPerAlpha = cellsPerAlpha
		s.grid.MaxGridPoints = maxGridPoints
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = Logger()
	}
	if s.wrapper == nil {
		s.grid.Logger = s.logger
		s.wrapper = gridWrapper{gridwrap.New(s.grid)}
	}
	return s
}
