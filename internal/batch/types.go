package batch

import "github.com/a3tai/committee-records/internal/record"

// FailureEntry names a document that produced no valid record and why.
// It is serialized as-is into the error log.
type FailureEntry struct {
	File   string   `json:"file"`
	Errors []string `json:"errors"`
}

// Outcome is the result of processing one document: exactly one of
// Record and Failure is set.
type Outcome struct {
	// File is the base name of the document
	File    string
	Record  *record.Record
	Failure *FailureEntry
}

// Valid reports whether the document produced a validated record
func (o Outcome) Valid() bool {
	return o.Record != nil
}

// Result partitions a batch into valid records and failures, both in
// discovery order.
type Result struct {
	Valid    []record.Record
	Failures []FailureEntry
}

// Total is the number of documents the result accounts for
func (r Result) Total() int {
	return len(r.Valid) + len(r.Failures)
}

// Add records one outcome
func (r *Result) Add(o Outcome) {
	if o.Valid() {
		r.Valid = append(r.Valid, *o.Record)
		return
	}
	if o.Failure != nil {
		r.Failures = append(r.Failures, *o.Failure)
	}
}

// Sink receives the valid records of a run
type Sink interface {
	Append(records []record.Record) error
}
