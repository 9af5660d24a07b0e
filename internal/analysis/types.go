package analysis

import "fmt"

// Point is one strength or improvement area.
type Point struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// Report is the structured outcome of an analysis.
type Report struct {
	Strengths    []Point `json:"strengths"`
	Improvements []Point `json:"improvements"`
}

// AnalysisError wraps any failure to produce a Report.
type AnalysisError struct {
	Kind string // "result" or "subject"
	ID   string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
