package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hupe1980/owlgo/model"
)

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return New(Config{Enabled: true, Provider: tp}), rec
}

func attr(kvs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracer_Materialize(t *testing.T) {
	tr, rec := newRecordingTracer()

	_, span := tr.StartMaterialize(context.Background(), "e1", 128, 3)
	tr.EndMaterialize(span, model.MaterializeResult{Passes: 2, RowsChanged: 5, RowsVisited: 140, Converged: true}, nil)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "owlgo.materialize", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	v, ok := attr(spans[0].Attributes(), "owlgo.result.passes")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.AsInt64())
	v, ok = attr(spans[0].Attributes(), "owlgo.result.rows_visited")
	require.True(t, ok)
	assert.Equal(t, int64(140), v.AsInt64())
	v, ok = attr(spans[0].Attributes(), "owlgo.engine_id")
	require.True(t, ok)
	assert.Equal(t, "e1", v.AsString())
}

func TestTracer_ErrorStatus(t *testing.T) {
	tr, rec := newRecordingTracer()

	_, span := tr.StartRebuild(context.Background(), "e1", 64, 128)
	tr.EndRebuild(span, 0, errors.New("boom"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestTracer_Disabled(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tr := New(Config{Enabled: false, Provider: tp})

	ctx, span := tr.StartLoad(context.Background(), "file.yaml", 10)
	require.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
	tr.EndLoad(span, 10, nil)
	assert.Empty(t, rec.Ended())

	assert.False(t, Disabled().Enabled())
	var nilTracer *Tracer
	assert.False(t, nilTracer.Enabled())
}
