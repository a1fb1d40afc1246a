package dupes

import "fmt"

// ProbeError means a video's duration could not be read. The file is treated
// as not comparable.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ExtractionError means a keyframe could not be pulled from a video. The pair
// being compared is treated as not duplicate.
type ExtractionError struct {
	Path string
	At   float64
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract frame at %.3fs from %s: %v", e.At, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
