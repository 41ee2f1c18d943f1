package chartling

import "github.com/matt-g-everett/chartling/dom"

//go:generate mockgen -package chartling -source engine.go -destination engine_mock.go

// An Engine is the shared chart resource every chartling animates through.
type Engine interface {
	// Ready returns the token that resolves once the engine has finished
	// initialising. Every call returns the same token.
	Ready() Token
	// Animate starts a transition and returns a token that resolves when it
	// has finished.
	Animate(req Request) Token
}

// A Factory creates the engine, bound to an off-document container. It is
// called at most once per Controller.
type Factory func(container *dom.Element) (Engine, error)
