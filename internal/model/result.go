package model

import "github.com/google/uuid"

// JobResult is the outcome of processing one input file. Exactly one of
// the success fields or Err is meaningful; results are collected into the
// batch report and never cross job boundaries as panics or shared state.
type JobResult struct {
	JobID     uuid.UUID
	InputPath string

	// Success fields.
	OutputPath   string
	BytesIn      int64
	BytesWritten int64

	// Failure fields.
	Err  error
	Kind ErrorKind
}

// Succeeded reports whether the job completed and its output was written.
func (r JobResult) Succeeded() bool { return r.Err == nil }

// Success builds a successful result.
func Success(id uuid.UUID, input, output string, bytesIn, bytesWritten int64) JobResult {
	return JobResult{
		JobID:        id,
		InputPath:    input,
		OutputPath:   output,
		BytesIn:      bytesIn,
		BytesWritten: bytesWritten,
	}
}

// Failed builds a failed result, classifying err for the report.
func Failed(id uuid.UUID, input string, err error) JobResult {
	return JobResult{
		JobID:     id,
		InputPath: input,
		Err:       err,
		Kind:      KindOf(err),
	}
}
