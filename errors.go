package heatwave

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNoCompatibleAdapter is matched by an InitError of kind
	// InitNoCompatibleAdapter.
	ErrNoCompatibleAdapter = errors.New("heatwave: no compatible adapter")

	// ErrBindingInvalid is returned by AcquireFrame while the window has a
	// zero-area client size.
	ErrBindingInvalid = errors.New("heatwave: surface binding invalid")

	// ErrDegenerateSize is wrapped by Reconfigure when it defers a zero
	// width or height. It is informational; callers skip the frame.
	ErrDegenerateSize = errors.New("heatwave: degenerate surface size")

	// ErrInvalidConfig is wrapped by Config.Validate failures.
	ErrInvalidConfig = errors.New("heatwave: invalid config")

	// ErrReleased is returned when a released context or binding is used.
	ErrReleased = errors.New("heatwave: released")

	// ErrUnsupportedConfigFormat is returned by LoadConfig for unknown file
	// extensions.
	ErrUnsupportedConfigFormat = errors.New("heatwave: unsupported config format")
)

// InitKind classifies a GPU context negotiation failure.
type InitKind int

// Negotiation steps that can fail.
const (
	InitInstance InitKind = iota
	InitSurfaceCreation
	InitNoCompatibleAdapter
	InitDeviceRequest
)

func (k InitKind) String() string {
	switch k {
	case InitInstance:
		return "instance"
	case InitSurfaceCreation:
		return "surface creation"
	case InitNoCompatibleAdapter:
		return "no compatible adapter"
	case InitDeviceRequest:
		return "device request"
	}
	return fmt.Sprintf("InitKind(%d)", int(k))
}

// InitError reports a failed NewGPUContext. It is fatal to startup; the
// caller decides whether to retry, for example with a fallback adapter.
type InitError struct {
	Kind InitKind
	Err  error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return "heatwave: init: " + e.Kind.String()
	}
	return "heatwave: init: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNoCompatibleAdapter and e is of that kind.
func (e *InitError) Is(target error) bool {
	return target == ErrNoCompatibleAdapter && e.Kind == InitNoCompatibleAdapter
}
