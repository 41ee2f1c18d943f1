package chartling

import (
	"strings"

	"github.com/google/uuid"
	"github.com/matt-g-everett/chartling/dom"
	"go.uber.org/zap"
)

// Option configures a Chartling at construction.
type Option func(*options)

type options struct {
	base BaseRef
	id   string
}

// WithBase makes the chartling continue from base's last state.
func WithBase(base BaseRef) Option {
	return func(o *options) { o.base = base }
}

// WithID gives the chartling an explicit id instead of the container's.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// A Chartling is a handle on the shared chart, bound to one container.
type Chartling struct {
	id        string
	container *dom.Element
	base      *Chartling
	ctrl      *Controller
}

// New creates a chartling bound to container and registers it with ctrl.
// It fails if ctrl has no engine bound, if the container cannot be resolved,
// or if the engine cannot be created. Nothing is registered on failure.
func New(ctrl *Controller, container dom.Ref, opts ...Option) (*Chartling, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !ctrl.bound() {
		return nil, &Error{Op: "chartling.New", Kind: KindInit, Handle: container.String(), Err: ErrNotBound}
	}

	el, ok := ctrl.resolver.Resolve(container, ctrl.containerTag)
	if !ok {
		return nil, &Error{Op: "chartling.New", Kind: KindResolve, Handle: container.String(), Err: ErrContainerNotFound}
	}

	if err := ctrl.ensureEngine(); err != nil {
		return nil, err
	}

	h := new(Chartling)
	h.container = el
	h.ctrl = ctrl
	h.base = ctrl.ResolveBase(o.base)

	switch {
	case o.id != "":
		h.id = o.id
	case el.ID() != "":
		h.id = el.ID()
	default:
		h.id = ctrl.generateID()
		el.SetID(h.id)
	}

	ctrl.Register(h)
	ctrl.logger.Debug("chartling created",
		zap.String("id", h.id),
		zap.String("base", h.BaseID()))
	return h, nil
}

// generateID returns an id of the form <prefix>-<token> not yet registered.
func (c *Controller) generateID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		token := strings.SplitN(uuid.NewString(), "-", 2)[0]
		id := c.idPrefix + "-" + token
		if _, taken := c.registry[id]; !taken {
			return id
		}
	}
}

// ID returns the chartling id.
func (h *Chartling) ID() string {
	return h.id
}

// Container returns the element the chartling is bound to.
func (h *Chartling) Container() *dom.Element {
	return h.container
}

// Base returns the chartling this one continues from, or nil.
func (h *Chartling) Base() *Chartling {
	return h.base
}

// BaseID returns the base's id, or an empty string.
func (h *Chartling) BaseID() string {
	if h.base == nil {
		return ""
	}
	return h.base.id
}

// Chart returns the shared engine.
func (h *Chartling) Chart() Engine {
	return h.ctrl.Engine()
}

// Animate queues a transition to p.
func (h *Chartling) Animate(p Payload) {
	h.ctrl.Submit(h.id, p)
}

// SetData queues a transition to new data.
func (h *Chartling) SetData(data []float64) {
	h.Animate(Payload{Data: data})
}

// SetConfig queues a transition to a new chart configuration.
func (h *Chartling) SetConfig(config map[string]string) {
	h.Animate(Payload{Config: config})
}

// SetStyle queues a transition to a new style.
func (h *Chartling) SetStyle(style Style) {
	h.Animate(Payload{Style: style})
}
