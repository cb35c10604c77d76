package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzzyload/internal/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	audit := []pipeline.AuditEntry{
		{Row: 0, Raw: "Jhon Smtih", Chosen: "John Smith", Score: 80, Accepted: true},
		{Row: 1, Raw: "Jane Smith", Chosen: "Jane Smith", Score: 100, Accepted: true},
		{Row: 2, Raw: "Xyz Qrstuv", Chosen: "Xyz Qrstuv", Score: 30, Accepted: false},
	}

	path := filepath.Join(t.TempDir(), "audit.csv")
	require.NoError(t, pipeline.WriteAudit(path, audit))

	return NewServer("127.0.0.1:0", path)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHandleAudit(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []pipeline.AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "John Smith", entries[0].Chosen)
	assert.False(t, entries[2].Accepted)
}

func TestHandleSummary(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 1, summary.NearMisses)
	assert.Equal(t, 1, summary.Histogram[80])
	assert.Equal(t, 1, summary.Histogram[100])
	assert.Equal(t, 1, summary.Histogram[30])
}

func TestHandleAuditMissingFile(t *testing.T) {
	s := NewServer("127.0.0.1:0", filepath.Join(t.TempDir(), "absent.csv"))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
