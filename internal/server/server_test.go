package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-web/config"
	"listings-web/internal/page"
	"listings-web/internal/port"
	"listings-web/models"
	"listings-web/service"
)

type fakePages struct {
	page     *service.Page
	buildErr error
	payload  []byte
	err      error
}

func (f *fakePages) Build(context.Context) (*service.Page, error) {
	return f.page, f.buildErr
}

func (f *fakePages) Payload(context.Context) ([]byte, error) {
	return f.payload, f.err
}

func newTestServer(t *testing.T, pages PageBuilder, origins ...string) *httptest.Server {
	t.Helper()
	cfg := config.Default().Server
	cfg.CORSOrigins = origins
	return serve(t, cfg, pages)
}

func serve(t *testing.T, cfg config.ServerConfig, pages PageBuilder) *httptest.Server {
	t.Helper()
	h, err := NewRouter(cfg, pages, port.NopLogger{})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndexReady(t *testing.T) {
	srv := newTestServer(t, &fakePages{page: &service.Page{HTML: "<html>ok</html>", State: page.StateReady}})

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "<html>ok</html>", body)

	_, err := uuid.Parse(resp.Header.Get(TraceHeader))
	assert.NoError(t, err)
}

func TestIndexKeepsValidTraceID(t *testing.T) {
	srv := newTestServer(t, &fakePages{page: &service.Page{State: page.StateReady}})
	id := uuid.NewString()

	resp, _ := get(t, srv.URL+"/", TraceHeader, id)
	assert.Equal(t, id, resp.Header.Get(TraceHeader))
}

func TestIndexErrorNotice(t *testing.T) {
	srv := newTestServer(t, &fakePages{page: &service.Page{
		HTML:  `<div id="dataError">No pudimos cargar</div>`,
		State: page.StateErrorShown,
		Err:   errors.New("fetch failed"),
	}})

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "dataError")
}

func TestIndexBuildFailure(t *testing.T) {
	srv := newTestServer(t, &fakePages{buildErr: errors.New("bad shell")})

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, resp.Header.Get(TraceHeader))
}

func TestPropertiesServesPayloadWithoutCaching(t *testing.T) {
	srv := newTestServer(t, &fakePages{payload: []byte(`{"sales":[]}`)}, "https://corretajesur.cl")

	resp, body := get(t, srv.URL+"/properties.json", "Origin", "https://corretajesur.cl")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"sales":[]}`, body)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-cache")
	assert.Equal(t, "https://corretajesur.cl", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = get(t, srv.URL+"/properties.json", "Origin", "https://evil.example")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPropertiesErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", models.ErrInvalidPayload), http.StatusBadGateway},
		{errors.New("connection refused"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		srv := newTestServer(t, &fakePages{err: tc.err})
		resp, body := get(t, srv.URL+"/properties.json")
		assert.Equal(t, tc.status, resp.StatusCode)

		var reply map[string]string
		require.NoError(t, json.Unmarshal([]byte(body), &reply))
		assert.Equal(t, tc.err.Error(), reply["error"])
		assert.Equal(t, resp.Header.Get(TraceHeader), reply["trace_id"])
	}
}

func TestDevModeMountsProfiler(t *testing.T) {
	cfg := config.Default().Server
	resp, _ := get(t, serve(t, cfg, &fakePages{}).URL+"/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cfg.Dev = true
	resp, _ = get(t, serve(t, cfg, &fakePages{}).URL+"/debug/pprof/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssetsAndHealth(t *testing.T) {
	srv := newTestServer(t, &fakePages{})

	resp, body := get(t, srv.URL+"/assets/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, "data-copy"))

	resp, _ = get(t, srv.URL+"/assets/styles.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}
