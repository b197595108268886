package scheduler

import (
	"github.com/google/uuid"

	"github.com/optimg/optimg/internal/codec"
	"github.com/optimg/optimg/internal/pipeline"
)

// Job describes one input file's unit of work. A Job is created at
// dispatch time and discarded when the job completes; the only thing it
// shares with other jobs is the immutable pipeline spec and the encoder,
// both safe for concurrent reads.
type Job struct {
	ID         uuid.UUID
	InputPath  string
	OutputPath string
	Backup     bool
	Spec       *pipeline.Spec
	Encoder    codec.Encoder
}

// NewJob builds a job descriptor with a fresh id for log correlation.
func NewJob(input, output string, backup bool, spec *pipeline.Spec, enc codec.Encoder) Job {
	return Job{
		ID:         uuid.New(),
		InputPath:  input,
		OutputPath: output,
		Backup:     backup,
		Spec:       spec,
		Encoder:    enc,
	}
}
