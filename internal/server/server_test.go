package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/generator"
	"github.com/koustreak/autoseq/internal/logger"
	"github.com/koustreak/autoseq/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	res *generator.Result
	err error
}

func (s stubSource) Generate(ctx context.Context) (*generator.Result, error) {
	return s.res, s.err
}

func shop() stubSource {
	return stubSource{res: &generator.Result{
		Tables: []string{"posts", "users"},
		Models: map[string]string{
			"posts": "export const Posts = ...\n",
			"users": "export const Users = ...\n",
		},
	}}
}

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Routes(t *testing.T) {
	s := New(shop(), logger.Nop(), nil)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		contentType string
		body        string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, contentType: "application/json", body: `{"status":"ok"}` + "\n"},
		{name: "list", path: "/models", wantStatus: http.StatusOK, contentType: "application/json", body: `{"tables":["posts","users"]}` + "\n"},
		{name: "model", path: "/models/users", wantStatus: http.StatusOK, contentType: "text/javascript; charset=utf-8", body: "export const Users = ...\n"},
		{name: "unknown route", path: "/nope", wantStatus: http.StatusNotFound},
		{name: "metrics disabled", path: "/metrics", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, s, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestServer_UnknownTable(t *testing.T) {
	rec := serve(t, New(shop(), logger.Nop(), nil), "/models/orders")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Kind)
	assert.Contains(t, body.Error, `"orders"`)
}

func TestServer_GenerationFailure(t *testing.T) {
	src := stubSource{err: errs.Wrap(errs.ErrKindIntrospection, "describe table users", errs.New(errs.ErrKindTimeout, "slow"))}
	rec := serve(t, New(src, logger.Nop(), nil), "/models")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "introspection_failed", body.Kind)
}

func TestServer_Metrics(t *testing.T) {
	m := metrics.New()
	m.Run(nil)

	rec := serve(t, New(shop(), logger.Nop(), m), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `autoseq_runs_total{status="ok"} 1`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind errs.ErrKind
		want int
	}{
		{errs.ErrKindNotFound, http.StatusNotFound},
		{errs.ErrKindInvalidInput, http.StatusBadRequest},
		{errs.ErrKindPermissionDenied, http.StatusForbidden},
		{errs.ErrKindTimeout, http.StatusGatewayTimeout},
		{errs.ErrKindConnectionFailed, http.StatusServiceUnavailable},
		{errs.ErrKindIntrospection, http.StatusInternalServerError},
		{errs.ErrKindWrite, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(errs.New(tt.kind, "x")))
		})
	}
}

func TestServer_ListenAndServeShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(shop(), logger.Nop(), nil).ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
