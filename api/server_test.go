package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsync/ledger"
	"partsync/pkg/types"
)

func seededServer(t *testing.T) (*Server, types.MappingRecord) {
	t.Helper()
	repo := ledger.NewMemoryRepository()

	listing := types.NormalizedListing{
		SupplierListing: types.SupplierListing{SupplierID: "alpha", ExternalID: "1"},
		BrandGuess:      "samsung",
	}
	rec := ledger.NewRecord(uuid.New(), listing, &types.MatchCandidate{
		ModelID:    "sm-g991",
		BrandID:    "samsung",
		Confidence: 0.55,
		Method:     types.MethodPartial,
	})
	require.NoError(t, repo.AppendMapping(context.Background(), rec))

	return NewServer(repo, nil, zerolog.Nop()), rec
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := seededServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReviewEndpoint(t *testing.T) {
	srv, rec := seededServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost,
		"/api/v1/mappings/"+rec.ID.String()+"/review",
		`{"reviewer": "ops@example.com", "approved": true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got types.MappingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, rec.ID, got.ID)
	require.NotNil(t, got.Approved)
	assert.True(t, *got.Approved)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, "ops@example.com", *got.ReviewedBy)
}

func TestReviewEndpointValidation(t *testing.T) {
	srv, rec := seededServer(t)
	h := srv.Handler()
	reviewPath := "/api/v1/mappings/" + rec.ID.String() + "/review"

	// Missing reviewer.
	w := doJSON(t, h, http.MethodPost, reviewPath, `{"approved": true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bad mapping id.
	w = doJSON(t, h, http.MethodPost, "/api/v1/mappings/not-a-uuid/review", `{"reviewer": "ops"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown mapping id.
	w = doJSON(t, h, http.MethodPost, "/api/v1/mappings/"+uuid.NewString()+"/review", `{"reviewer": "ops"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Wrong method.
	w = doJSON(t, h, http.MethodGet, reviewPath, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	// Unknown action.
	w = doJSON(t, h, http.MethodPost, "/api/v1/mappings/"+rec.ID.String()+"/approve", `{"reviewer": "ops"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQualityReportEndpoint(t *testing.T) {
	srv, _ := seededServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/reports/quality", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report types.QualityReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.TotalMappings)
	require.Len(t, report.LowConfidence, 1)
}

func TestReviewQueueEndpoint(t *testing.T) {
	srv, rec := seededServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/reports/review-queue", "")
	require.Equal(t, http.StatusOK, w.Code)

	var queue []types.MappingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, rec.ID, queue[0].ID)

	// Reviewing drains the queue.
	doJSON(t, srv.Handler(), http.MethodPost,
		"/api/v1/mappings/"+rec.ID.String()+"/review",
		`{"reviewer": "ops", "approved": false}`)

	w = doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/reports/review-queue", "")
	require.Equal(t, http.StatusOK, w.Code)
	var drained []types.MappingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drained))
	assert.Empty(t, drained)
}

func TestUnmappedReportEndpoint(t *testing.T) {
	srv, _ := seededServer(t)

	noMatch := types.NormalizedListing{
		SupplierListing: types.SupplierListing{SupplierID: "gamma", ExternalID: "7"},
		BrandGuess:      types.Unresolved,
	}
	unmapped := ledger.NewRecord(uuid.New(), noMatch, nil)
	require.NoError(t, srv.repo.AppendMapping(context.Background(), unmapped))

	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/reports/unmapped", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out []types.MappingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "gamma:7", out[0].SupplierListingID)
	assert.Nil(t, out[0].ModelID)

	// The seeded mapped record stays out of the unmapped report, and the
	// route is read-only.
	w = doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/reports/unmapped", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
