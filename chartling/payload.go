package chartling

import "time"

// Style carries the visual part of a chart state.
type Style struct {
	// Colors are hex colours, one per series.
	Colors []string `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Options control how a transition to a new state is played.
type Options struct {
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Easing   string        `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// Payload is a chart state to animate to. The controller never looks inside
// it; only the engine does.
type Payload struct {
	Data    []float64         `json:"data,omitempty" yaml:"data,omitempty"`
	Config  map[string]string `json:"config,omitempty" yaml:"config,omitempty"`
	Style   Style             `json:"style,omitempty" yaml:"style,omitempty"`
	Options Options           `json:"options,omitempty" yaml:"options,omitempty"`
}

// Request is a single animation handed to the engine.
type Request struct {
	Seq       uint64 `json:"seq"`
	Handle    string `json:"handle"`
	Container string `json:"container,omitempty"`
	// Base is the id of the chartling this one continues from, if any.
	Base string `json:"base,omitempty"`
	// From is the base's most recently played state. Nil means the animation
	// starts from a clean sheet.
	From *Payload `json:"from,omitempty"`
	To   Payload  `json:"to"`
}

type entry struct {
	seq     uint64
	handle  string
	payload Payload
}
