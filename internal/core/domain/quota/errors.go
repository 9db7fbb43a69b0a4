package quota

import "errors"

// ErrExceeded marks a deliberate quota denial. The accompanying Decision
// carries the human-readable reset estimate.
var ErrExceeded = errors.New("quota exceeded")
