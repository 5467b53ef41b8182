package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	return p.err
}

func newTestServer(db DatabasePinger) *Server {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewServer(Config{
		ServiceName: "gridiron-edge-test",
		Version:     "dev",
		Port:        "0",
		Logger:      log,
		DB:          db,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "gridiron-edge-test", resp.Service)
}

func TestHandleReadyNotReadyUntilMarked(t *testing.T) {
	s := newTestServer(&fakePinger{})

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHandleReadyIncludesDetails(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	s := NewServer(Config{
		ServiceName: "gridiron-edge-test",
		Port:        "0",
		Logger:      log,
		DB:          &fakePinger{},
		Details: func() map[string]string {
			return map[string]string{"scheduler": "running"}
		},
	})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "running", resp.Checks["scheduler"])
}

func TestHandleReadyDatabaseFailure(t *testing.T) {
	s := newTestServer(&fakePinger{err: fmt.Errorf("connection refused")})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
