package ports

import "context"

// Tracer is the entry point for recording build progress spans.
type Tracer interface {
	// Start opens a span for a named unit of work.
	Start(ctx context.Context, name string) (context.Context, Span)

	// Close flushes the recording session.
	Close() error
}

// Span represents one unit of work in progress.
type Span interface {
	// End completes the span.
	End()

	// RecordError marks the span as failed.
	RecordError(err error)
}
