package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/domainhealth/internal/domain"
	"github.com/hamed0406/domainhealth/internal/repo"
	"github.com/hamed0406/domainhealth/internal/repo/memory"
)

func setupServer(t *testing.T) (*httptest.Server, *memory.Ledger) {
	t.Helper()
	ledger := memory.New()
	srv := NewServer(zap.NewNop(), ledger)
	// very high rate limits to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(10_000, 10_000))
	t.Cleanup(ts.Close)
	return ts, ledger
}

func TestHealthz(t *testing.T) {
	ts, _ := setupServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))
}

func TestListAvailability(t *testing.T) {
	ts, ledger := setupServer(t)
	for _, s := range []domain.Status{domain.StatusUp, domain.StatusDown, domain.StatusUp, domain.StatusUp} {
		ledger.Record("a.example.com", s)
	}
	ledger.Record("b.example.com", domain.StatusDown)

	resp, err := http.Get(ts.URL + "/api/availability")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body listResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Domains, 2)
	assert.Equal(t, repo.DomainAvailability{
		Domain: "a.example.com", Availability: 0.75, Percent: 75, Up: 3, Samples: 4,
	}, body.Domains[0])
	assert.Equal(t, 0, body.Domains[1].Percent)
	assert.False(t, body.Since.IsZero())
}

func TestListAvailability_EmptyLedger(t *testing.T) {
	ts, _ := setupServer(t)
	resp, err := http.Get(ts.URL + "/api/availability")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body listResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Domains)
}

func TestGetAvailability(t *testing.T) {
	ts, ledger := setupServer(t)
	ledger.Record("localhost:8080", domain.StatusUp)

	resp, err := http.Get(ts.URL + "/api/availability/LOCALHOST:8080")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d repo.DomainAvailability
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, domain.Domain("localhost:8080"), d.Domain)
	assert.Equal(t, 100, d.Percent)

	missing, err := http.Get(ts.URL + "/api/availability/nowhere.example.com")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
