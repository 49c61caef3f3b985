package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestContextMiddleware_GeneratesRequestID(t *testing.T) {
	var got Correlation
	handler := RequestContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))

	require.NotEmpty(t, got.RequestID)
	require.Equal(t, got.RequestID, rec.Header().Get("X-Request-Id"))
}

func TestRequestContextMiddleware_HonorsInboundHeaders(t *testing.T) {
	var got Correlation
	handler := RequestContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("X-Request-Id", "req-abc123")
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "req-abc123", got.RequestID)
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", got.TraceID)
}

func TestExtractTraceID_RejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-traceparent",
		"00-short-00f067aa0ba902b7-01",
		"00-00000000000000000000000000000000-00f067aa0ba902b7-01",
		"00-4BF92F3577B34DA6A3CE929D0E0E473Z-00f067aa0ba902b7-01",
	}
	for _, tp := range cases {
		require.Empty(t, extractTraceID(tp), "traceparent %q", tp)
	}
}

func TestResponseRecorder_TracksStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped, recorder := NewResponseRecorder(rec)

	wrapped.WriteHeader(http.StatusTeapot)
	wrapped.WriteHeader(http.StatusOK) // second write is ignored
	n, err := wrapped.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	require.Equal(t, http.StatusTeapot, recorder.StatusCode())
	require.Equal(t, int64(5), recorder.RespBytes())
	require.True(t, recorder.WroteHeader())
}
