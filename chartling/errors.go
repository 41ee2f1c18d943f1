package chartling

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNotBound is returned when a chartling is created before Bind.
	ErrNotBound = errors.New("controller not bound to a chart engine")
	// ErrContainerNotFound is returned when the container reference does not
	// resolve to an element with the required tag.
	ErrContainerNotFound = errors.New("container not found or wrong tag")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInit indicates a chartling created before the engine was bound.
	KindInit
	// KindResolve indicates a container that could not be resolved.
	KindResolve
	// KindEngine indicates the engine factory failed.
	KindEngine
	// KindAnimate indicates the engine failed to become ready or to animate.
	KindAnimate
)

func (k ErrorKind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindResolve:
		return "resolve"
	case KindEngine:
		return "engine"
	case KindAnimate:
		return "animate"
	default:
		return "unknown"
	}
}

// Error is the structured error returned and reported by this package.
type Error struct {
	// Op is the operation that failed (e.g., "chartling.New").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Handle is the chartling id or container reference involved, if any.
	Handle string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Handle != "" {
		return fmt.Sprintf("%s [%s] handle=%s: %v", e.Op, e.Kind, e.Handle, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors that cannot be returned to a caller, such as
// an animation failing while the queue drains.
type ErrorHandler interface {
	HandleError(err *Error)
}

// LogHandler is an ErrorHandler that logs errors.
type LogHandler struct {
	Logger *zap.Logger
}

// HandleError logs err at error level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil || h.Logger == nil {
		return
	}
	h.Logger.Error("chartling error",
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.String("handle", err.Handle),
		zap.Error(err.Err))
}
