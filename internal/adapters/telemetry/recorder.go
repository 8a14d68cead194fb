// Package telemetry provides the Progrock implementation of the tracer port.
package telemetry

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/pyforge/internal/core/ports"
)

// Recorder implements ports.Tracer using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() ports.Tracer {
	tape := progrock.NewTape()
	return NewRecorder(tape)
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	rec := progrock.NewRecorder(w)
	return &Recorder{
		w:   w,
		rec: rec,
	}
}

// Start opens a span for a named unit of work.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	return ctx, &Span{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Span implements ports.Span wrapping *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder
	err    error
}

// RecordError marks the span as failed.
func (s *Span) RecordError(err error) {
	s.err = err
}

// End completes the span, propagating any recorded error.
func (s *Span) End() {
	s.vertex.Done(s.err)
}
