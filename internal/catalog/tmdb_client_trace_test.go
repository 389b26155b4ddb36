package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTracedClient(t *testing.T, handler http.HandlerFunc) (*TMDBClient, *tracetest.SpanRecorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	client, err := NewTMDBClient("test-key", server.URL, time.Second, WithTracerProvider(tp))
	require.NoError(t, err)
	return client, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func spanNamed(t *testing.T, spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range spans {
		if span.Name() == name {
			return span
		}
	}
	t.Fatalf("span %q not recorded", name)
	return nil
}

func TestTMDBClient_SearchSpans(t *testing.T) {
	t.Parallel()

	t.Run("successful search", func(t *testing.T) {
		t.Parallel()
		client, recorder := newTracedClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"Heat"},{"id":2,"title":"Heat Wave"}]}`))
		})

		_, err := client.SearchMovies(context.Background(), "Heat")
		require.NoError(t, err)

		spans := recorder.Ended()
		search := spanNamed(t, spans, "catalog.SearchMovies")
		require.NotEqual(t, codes.Error, search.Status().Code)
		require.False(t, search.Parent().IsValid(), "search span is the root")

		length, ok := spanAttr(search, "query.length")
		require.True(t, ok)
		require.Equal(t, int64(4), length.AsInt64())
		results, ok := spanAttr(search, "results")
		require.True(t, ok)
		require.Equal(t, int64(2), results.AsInt64())

		request := spanNamed(t, spans, "HTTP GET")
		require.Equal(t, trace.SpanKindClient, request.SpanKind())
		require.Equal(t, search.SpanContext().TraceID(), request.SpanContext().TraceID())
		require.Equal(t, search.SpanContext().SpanID(), request.Parent().SpanID(),
			"transport span must be a child of the search span")
	})

	t.Run("failed search marks the span", func(t *testing.T) {
		t.Parallel()
		client, recorder := newTracedClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.SearchMovies(context.Background(), "Heat")
		require.ErrorIs(t, err, ErrConnection)

		search := spanNamed(t, recorder.Ended(), "catalog.SearchMovies")
		require.Equal(t, codes.Error, search.Status().Code)
		require.NotEmpty(t, search.Events(), "error should be recorded as an event")
	})

	t.Run("blank query opens no span", func(t *testing.T) {
		t.Parallel()
		client, recorder := newTracedClient(t, func(http.ResponseWriter, *http.Request) {})

		_, err := client.SearchMovies(context.Background(), " ")
		require.ErrorIs(t, err, ErrEmptyQuery)
		require.Empty(t, recorder.Ended())
	})
}
