// Package chartling coordinates one shared chart engine across many chartlings.
//
// Each Chartling is bound to its own container, but all of them animate
// through the single engine owned by a Controller. The Controller queues
// submissions in FIFO order and plays exactly one at a time. A chartling
// created with a base continues from the base's last played state instead
// of starting from a clean sheet.
package chartling

import (
	"context"
	"sync"

	"github.com/matt-g-everett/chartling/dom"
	"go.uber.org/zap"
)

// State is the Controller's playback state.
type State int

const (
	// Uninitialized means no engine factory has been bound.
	Uninitialized State = iota
	// Idle means nothing is playing.
	Idle
	// Playing means an animation is in flight.
	Playing
	// Stalled means the head of the queue failed and playback is paused
	// until Resume.
	Stalled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithErrorHandler sets where playback failures are reported. The default
// logs them.
func WithErrorHandler(h ErrorHandler) ControllerOption {
	return func(c *Controller) { c.errHandler = h }
}

// WithContainerTag sets the tag every chartling container must have.
func WithContainerTag(tag string) ControllerOption {
	return func(c *Controller) { c.containerTag = tag }
}

// WithIDPrefix sets the prefix of generated chartling ids.
func WithIDPrefix(prefix string) ControllerOption {
	return func(c *Controller) { c.idPrefix = prefix }
}

// Controller owns the shared engine, the request queue and the chartling
// registry. It is safe for concurrent use.
type Controller struct {
	resolver     dom.Resolver
	logger       *zap.Logger
	errHandler   ErrorHandler
	containerTag string
	idPrefix     string

	mu          sync.Mutex
	factory     Factory
	engine      Engine
	engineErr   error
	creating    bool
	queue       []entry
	seq         uint64
	busy        bool
	stalled     *Error
	registry    map[string]*Chartling
	byContainer map[*dom.Element]*Chartling
	last        map[string]Payload
	changed     chan struct{}
}

// NewController creates a Controller that resolves containers through
// resolver.
func NewController(resolver dom.Resolver, opts ...ControllerOption) *Controller {
	c := new(Controller)
	c.resolver = resolver
	c.logger = zap.NewNop()
	c.containerTag = "div"
	c.idPrefix = "chartling"
	c.registry = make(map[string]*Chartling)
	c.byContainer = make(map[*dom.Element]*Chartling)
	c.last = make(map[string]Payload)
	c.changed = make(chan struct{})

	for _, opt := range opts {
		opt(c)
	}
	if c.errHandler == nil {
		c.errHandler = &LogHandler{Logger: c.logger}
	}

	return c
}

// Bind sets the engine factory. Only the first call has any effect.
func (c *Controller) Bind(factory Factory) {
	if factory == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.factory != nil {
		c.logger.Debug("engine already bound, ignoring")
		return
	}
	c.factory = factory
	c.broadcast()
}

// Register adds h to the registry. A later registration with the same id
// replaces the earlier one.
func (c *Controller) Register(h *Chartling) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.registry[h.id]; ok && prev != h {
		c.logger.Warn("chartling id registered twice", zap.String("id", h.id))
	}
	c.registry[h.id] = h
	c.byContainer[h.container] = h
}

// ResolveBase returns the chartling ref names, or nil if it names none or
// cannot be resolved.
func (c *Controller) ResolveBase(ref BaseRef) *Chartling {
	switch ref.kind {
	case baseHandle:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.registry[ref.handle.id] == ref.handle {
			return ref.handle
		}
	case baseID:
		c.mu.Lock()
		defer c.mu.Unlock()
		if h, ok := c.registry[ref.id]; ok {
			return h
		}
	case baseElement:
		c.mu.Lock()
		defer c.mu.Unlock()
		if h, ok := c.byContainer[ref.element]; ok {
			return h
		}
	}
	if !ref.IsNone() {
		c.logger.Debug("base not found, playing independently", zap.Stringer("base", ref))
	}
	return nil
}

// Submit queues p for the chartling with the given id and starts playback
// if nothing is playing.
func (c *Controller) Submit(handleID string, p Payload) {
	c.mu.Lock()
	c.seq++
	c.queue = append(c.queue, entry{seq: c.seq, handle: handleID, payload: p})
	c.logger.Debug("queued",
		zap.String("handle", handleID),
		zap.Uint64("seq", c.seq),
		zap.Int("pending", len(c.queue)))
	c.broadcast()
	c.mu.Unlock()

	c.drain()
}

// drain starts the head of the queue unless something is already playing,
// playback is stalled, the queue is empty, or there is no engine yet.
func (c *Controller) drain() {
	c.mu.Lock()
	if c.busy || c.stalled != nil || len(c.queue) == 0 || c.engine == nil {
		c.mu.Unlock()
		return
	}
	c.busy = true
	req := c.request(c.queue[0])
	engine := c.engine
	c.broadcast()
	c.mu.Unlock()

	go c.play(engine, req)
}

// request builds the engine request for e. Only the head is ever played, so
// every earlier entry, including the base's, has already finished.
func (c *Controller) request(e entry) Request {
	req := Request{Seq: e.seq, Handle: e.handle, To: e.payload}
	h, ok := c.registry[e.handle]
	if !ok {
		return req
	}
	req.Container = h.container.ID()
	if h.base != nil {
		req.Base = h.base.id
		if from, ok := c.last[h.base.id]; ok {
			req.From = &from
		}
	}
	return req
}

func (c *Controller) play(engine Engine, req Request) {
	if err := await(engine.Ready()); err != nil {
		c.fail("chartling.Ready", req, err)
		return
	}

	c.logger.Debug("playing",
		zap.String("handle", req.Handle),
		zap.Uint64("seq", req.Seq),
		zap.String("base", req.Base))
	if err := await(engine.Animate(req)); err != nil {
		c.fail("chartling.Animate", req, err)
		return
	}

	c.mu.Lock()
	c.busy = false
	c.queue = c.queue[1:]
	c.last[req.Handle] = req.To
	c.broadcast()
	c.mu.Unlock()

	c.drain()
}

// fail leaves the failed entry at the head of the queue and stalls playback.
func (c *Controller) fail(op string, req Request, err error) {
	e := &Error{Op: op, Kind: KindAnimate, Handle: req.Handle, Err: err}

	c.mu.Lock()
	c.busy = false
	c.stalled = e
	c.broadcast()
	c.mu.Unlock()

	c.errHandler.HandleError(e)
}

// Resume clears a stall and retries the head of the queue.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.stalled == nil {
		c.mu.Unlock()
		return
	}
	c.logger.Info("resuming playback", zap.String("handle", c.stalled.Handle))
	c.stalled = nil
	c.broadcast()
	c.mu.Unlock()

	c.drain()
}

// ensureEngine creates the engine on first use. A factory failure is kept and
// returned to every later caller. The factory runs without c.mu held;
// concurrent callers wait for the first one to finish.
func (c *Controller) ensureEngine() error {
	c.mu.Lock()
	for c.creating {
		changed := c.changed
		c.mu.Unlock()
		<-changed
		c.mu.Lock()
	}
	if c.engine != nil || c.engineErr != nil {
		defer c.mu.Unlock()
		return c.engineErr
	}
	c.creating = true
	factory := c.factory
	c.mu.Unlock()

	engine, err := factory(dom.NewElement("div"))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.creating = false
	c.broadcast()
	if err != nil {
		c.engineErr = &Error{Op: "chartling.Engine", Kind: KindEngine, Err: err}
		return c.engineErr
	}
	c.engine = engine
	c.logger.Info("chart engine created")
	return nil
}

func (c *Controller) bound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.factory != nil
}

// broadcast wakes WaitIdle callers. c.mu must be held.
func (c *Controller) broadcast() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// WaitIdle blocks until the queue is empty and nothing is playing. It returns
// the stall error if playback stalls first.
func (c *Controller) WaitIdle(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.stalled != nil {
			err := c.stalled
			c.mu.Unlock()
			return err
		}
		if !c.busy && len(c.queue) == 0 {
			c.mu.Unlock()
			return nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.factory == nil:
		return Uninitialized
	case c.stalled != nil:
		return Stalled
	case c.busy:
		return Playing
	default:
		return Idle
	}
}

// Busy reports whether an animation is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Pending returns the number of queued entries, including one in flight.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Chartling returns the registered chartling with the given id.
func (c *Controller) Chartling(id string) (*Chartling, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.registry[id]
	return h, ok
}

// Engine returns the shared engine, or nil before the first chartling exists.
func (c *Controller) Engine() Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}
