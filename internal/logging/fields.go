package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized key for component names.
	FieldComponent = "component"
	// FieldBatchID is the standardized key for batch run identifiers.
	FieldBatchID = "batch_id"
	// FieldTrack is the standardized key for the track being processed.
	FieldTrack = "track"
	// FieldDataset is the standardized key for dataset collection names.
	FieldDataset = "dataset"
	// FieldAlgorithm is the standardized key for algorithm identifiers.
	FieldAlgorithm = "algorithm"
	// FieldBoundariesID is the standardized key for the boundary algorithm id.
	FieldBoundariesID = "boundaries_id"
	// FieldLabelsID is the standardized key for the label algorithm id.
	FieldLabelsID = "labels_id"
)

type contextKey int

const (
	batchIDKey contextKey = iota
	trackKey
)

// WithBatchID stores the batch run identifier in the context.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// WithTrack stores the track name in the context.
func WithTrack(ctx context.Context, track string) context.Context {
	return context.WithValue(ctx, trackKey, track)
}

// ContextFields extracts standardized attrs from the provided context.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]Attr, 0, 2)
	if id, ok := ctx.Value(batchIDKey).(string); ok && id != "" {
		fields = append(fields, String(FieldBatchID, id))
	}
	if track, ok := ctx.Value(trackKey).(string); ok && track != "" {
		fields = append(fields, String(FieldTrack, track))
	}
	return fields
}

// WithContext returns a logger augmented with fields derived from the
// supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
