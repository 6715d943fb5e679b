package model

import "time"

// Submission is one committed form value recorded by a host
type Submission struct {
	ID        int64     `json:"id"`
	Field     string    `json:"field"`  // form control name
	Values    []Value   `json:"values"` // committed value(s); a single value is stored as one element
	Labels    []string  `json:"labels"` // labels of the matching options at submit time
	CreatedAt time.Time `json:"created_at"`
}

// Empty returns true if nothing was selected
func (s Submission) Empty() bool {
	return len(s.Values) == 0
}
