// Package tween is a local chart engine that renders each transition as a
// sequence of eased frames.
package tween

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matt-g-everett/chartling/chartling"
	"github.com/matt-g-everett/chartling/dom"
	"github.com/matt-g-everett/chartling/util"
	"go.uber.org/zap"
)

// A Sink receives every frame the engine renders.
type Sink interface {
	Render(handle string, f *Frame) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(handle string, f *Frame) error

func (fn SinkFunc) Render(handle string, f *Frame) error {
	return fn(handle, f)
}

const (
	// MaxFrameRate is the highest frame rate New accepts.
	MaxFrameRate = 1000
	// MaxFrames bounds the number of frames in one transition.
	MaxFrames = 1 << 16
)

// Engine renders transitions frame by frame at a fixed frame rate.
type Engine struct {
	config    Config
	sink      Sink
	logger    *zap.Logger
	container *dom.Element
	luts      *util.Memoizer
	ready     *chartling.CompletionToken
}

// New creates an Engine bound to container. It becomes ready asynchronously.
func New(container *dom.Element, config Config, sink Sink, logger *zap.Logger) (*Engine, error) {
	config = config.withDefaults()
	if config.FrameRate < 0 || config.FrameRate > MaxFrameRate || math.IsNaN(config.FrameRate) {
		return nil, fmt.Errorf("invalid frame rate %v", config.FrameRate)
	}
	if _, ok := util.Easing(config.Easing); !ok {
		return nil, fmt.Errorf("unknown easing %q", config.Easing)
	}
	if sink == nil {
		return nil, errors.New("tween: nil sink")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := new(Engine)
	e.config = config
	e.sink = sink
	e.logger = logger
	e.container = container
	e.luts = util.NewMemoizer()
	e.ready = chartling.NewToken()

	go e.ready.Complete(nil)

	return e, nil
}

// NewFactory returns a chartling.Factory that builds an Engine.
func NewFactory(config Config, sink Sink, logger *zap.Logger) chartling.Factory {
	return func(container *dom.Element) (chartling.Engine, error) {
		return New(container, config, sink, logger)
	}
}

// Container returns the off-document element the engine is bound to.
func (e *Engine) Container() *dom.Element {
	return e.container
}

func (e *Engine) Ready() chartling.Token {
	return e.ready
}

// Animate renders the transition from req.From to req.To. A zero duration
// uses the configured one; a negative duration renders the final frame once.
// The returned token fails if the payload is invalid, the transition needs
// more than MaxFrames frames, or the sink rejects a frame.
func (e *Engine) Animate(req chartling.Request) chartling.Token {
	tok := chartling.NewToken()
	go func() {
		tok.Complete(e.run(req))
	}()
	return tok
}

func (e *Engine) run(req chartling.Request) error {
	from, err := FrameFromPayload(req.From)
	if err != nil {
		return fmt.Errorf("from state: %w", err)
	}
	to, err := FrameFromPayload(&req.To)
	if err != nil {
		return fmt.Errorf("target state: %w", err)
	}

	duration := req.To.Options.Duration
	if duration == 0 {
		duration = e.config.Duration
	}
	easing := req.To.Options.Easing
	if easing == "" {
		easing = e.config.Easing
	}

	n := math.Round(duration.Seconds() * e.config.FrameRate)
	if n > MaxFrames {
		return fmt.Errorf("transition of %v needs %.0f frames, limit is %d", duration, n, MaxFrames)
	}
	frames := int(n)
	if frames < 1 {
		frames = 1
	}
	lut, err := util.GenerateLutMemoized(frames, easing, e.luts)
	if err != nil {
		return err
	}

	interval := time.Duration(float64(time.Second) / e.config.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, t := range lut {
		<-ticker.C
		if err := e.sink.Render(req.Handle, from.InterpolateFrame(to, t)); err != nil {
			return fmt.Errorf("render frame %d: %w", i, err)
		}
	}

	e.logger.Debug("transition rendered",
		zap.String("handle", req.Handle),
		zap.Int("frames", frames),
		zap.String("easing", easing))
	return nil
}
