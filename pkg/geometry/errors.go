package geometry

import "fmt"

// BuildError reports which barrel and which step of the build failed.
// Barrel is -1 for failures that precede per-barrel work.
type BuildError struct {
	Barrel int
	Op     string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Barrel < 0 {
		return fmt.Sprintf("geometry: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("geometry: barrel %d: %s: %v", e.Barrel, e.Op, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
