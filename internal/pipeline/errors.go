package pipeline

import "fmt"

// InvalidImageError reports image bytes that could not be decoded. This is
// a client input fault, distinct from engine failures.
type InvalidImageError struct {
	Err error
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image: %v", e.Err)
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// EngineError reports a failure inside the external recognition engine.
// This is an environment fault, not a client input problem.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("recognition engine: %v", e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// MalformedObservationError reports an observation whose geometry cannot be
// normalized. Well-behaved engines never produce these.
type MalformedObservationError struct {
	Corners int
}

func (e *MalformedObservationError) Error() string {
	return fmt.Sprintf("malformed observation: got %d corner points, need 4", e.Corners)
}
