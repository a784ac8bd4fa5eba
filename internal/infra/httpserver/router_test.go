package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/research-agent/internal/application"
	appanalysis "github.com/ecomlabs/research-agent/internal/application/analysis"
	domain "github.com/ecomlabs/research-agent/internal/domain/analysis"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
	"github.com/ecomlabs/research-agent/internal/infra/db/sqlite"
	"github.com/ecomlabs/research-agent/internal/infra/pipeline"
	"github.com/ecomlabs/research-agent/internal/infra/report"
	"github.com/ecomlabs/research-agent/internal/infra/storage"
	"github.com/ecomlabs/research-agent/internal/infra/tools"
	"github.com/ecomlabs/research-agent/internal/middleware"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.Connect(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := sqlite.NewAnalysisRepository(db)

	cat, err := catalog.Load()
	require.NoError(t, err)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	toolset := tools.New(cat, report.NewGenerator(store))

	svc := appanalysis.NewService(repo, pipeline.NewRunner(toolset), application.SystemClock{})

	handler := NewRouter(svc, Metadata{
		Service:  "ecommerce-research-agent",
		Version:  "test",
		Database: "SQLite",
		Agent:    "scripted-pipeline",
	}, map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postAnalyze(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeAnalysis(t *testing.T, r io.Reader) domain.Analysis {
	t.Helper()
	var a domain.Analysis
	require.NoError(t, json.NewDecoder(r).Decode(&a))
	return a
}

func waitForStatus(t *testing.T, srv *httptest.Server, id domain.AnalysisID, want domain.Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/v1/analyze")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var list []domain.Analysis
		if json.NewDecoder(resp.Body).Decode(&list) != nil {
			return false
		}
		for _, a := range list {
			if a.ID == id {
				return a.Status == want
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp := postAnalyze(t, srv, `{"query": "iPhone 15 Pro"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec := decodeAnalysis(t, resp.Body)
	assert.Equal(t, domain.StatusRunning, rec.Status)
	assert.Equal(t, "iPhone 15 Pro", rec.Query)
	assert.Nil(t, rec.CompletedAt)
	assert.Nil(t, rec.Report)
	require.NotEmpty(t, rec.ID)

	waitForStatus(t, srv, rec.ID, domain.StatusCompleted)

	reportResp, err := http.Get(srv.URL + "/api/v1/analyze/" + string(rec.ID))
	require.NoError(t, err)
	defer reportResp.Body.Close()
	require.Equal(t, http.StatusOK, reportResp.StatusCode)

	body, err := io.ReadAll(reportResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "iPhone 15 Pro")
	assert.Contains(t, string(body), "Product Analysis Report")
}

func TestAnalyzeStillRunningPage(t *testing.T) {
	srv := newTestServer(t)

	resp := postAnalyze(t, srv, `{"query": "macbook air"}`)
	rec := decodeAnalysis(t, resp.Body)
	resp.Body.Close()

	// the record may finish fast; only check the placeholder when we
	// catch it before completion
	statusResp, err := http.Get(srv.URL + "/api/v1/analyze/" + string(rec.ID))
	require.NoError(t, err)
	defer statusResp.Body.Close()
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)

	waitForStatus(t, srv, rec.ID, domain.StatusCompleted)
}

func TestAnalyzeValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postAnalyze(t, srv, `{"query": ""}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postAnalyze(t, srv, `not json`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAnalysisErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/analyze/00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// malformed ids can never name a record, so they are not found too
	resp, err = http.Get(srv.URL + "/api/v1/analyze/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListNewestFirst(t *testing.T) {
	srv := newTestServer(t)

	first := postAnalyze(t, srv, `{"query": "iPhone 15 Pro"}`)
	firstRec := decodeAnalysis(t, first.Body)
	first.Body.Close()
	waitForStatus(t, srv, firstRec.ID, domain.StatusCompleted)

	second := postAnalyze(t, srv, `{"query": "galaxy s23"}`)
	secondRec := decodeAnalysis(t, second.Body)
	second.Body.Close()
	waitForStatus(t, srv, secondRec.ID, domain.StatusCompleted)

	resp, err := http.Get(srv.URL + "/api/v1/analyze")
	require.NoError(t, err)
	defer resp.Body.Close()

	var list []domain.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, secondRec.ID, list[0].ID)
	assert.Equal(t, firstRec.ID, list[1].ID)
}

func TestHealthAndMetadata(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health middleware.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Services["database"].Status)

	root, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer root.Body.Close()

	var meta map[string]any
	require.NoError(t, json.NewDecoder(root.Body).Decode(&meta))
	assert.Equal(t, "SQLite", meta["database"])
	assert.Equal(t, "ecommerce-research-agent", meta["service"])

	fav, err := http.Get(srv.URL + "/favicon.ico")
	require.NoError(t, err)
	fav.Body.Close()
	assert.Equal(t, http.StatusOK, fav.StatusCode)
}
