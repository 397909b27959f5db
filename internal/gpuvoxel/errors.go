package gpuvoxel

import "fmt"

// FatalInitError wraps a resource-acquisition failure at startup (device,
// queue, or surface unavailable) per spec §7's "resource acquisition
// fatal" category: not recoverable in-process, and distinct from the
// per-frame transient GPU errors a render loop drops and retries.
type FatalInitError struct {
	Stage string
	Err   error
}

func (e *FatalInitError) Error() string {
	return fmt.Sprintf("gpuvoxel: fatal init failure at %s: %v", e.Stage, e.Err)
}

func (e *FatalInitError) Unwrap() error { return e.Err }

// NewFatalInitError wraps err as a FatalInitError attributed to stage (e.g.
// "request_adapter", "request_device", "configure_surface").
func NewFatalInitError(stage string, err error) *FatalInitError {
	return &FatalInitError{Stage: stage, Err: err}
}
