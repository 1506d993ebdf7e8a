/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Award CRUD and status codes
- Tables per financial year
- Classify-hours and calculate-pay in both manual and shift mode
- Request validation
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/award-engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T, seed bool) http.Handler {
	t.Helper()
	s := store.NewMemory()
	if seed {
		_, err := store.Seed(context.Background(), s)
		require.NoError(t, err)
	}
	h := NewHandler(s, nil, Options{Location: time.UTC})
	return NewRouter(h, []string{"http://localhost:5173"})
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// Wednesday 12 March 2025, 03:00-13:00: ten plain hours.
var tenHourWeekday = []map[string]any{
	{"start": "2025-03-12T03:00", "end": "2025-03-12T13:00"},
}

// =============================================================================
// AWARDS
// =============================================================================

func TestAwards_ListSeeded(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodGet, "/api/awards", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	awards := decodeBody[[]map[string]any](t, rec)
	require.Len(t, awards, 3)
	assert.Equal(t, "general-retail", awards[0]["id"])
}

func TestAwards_CreateGetDelete(t *testing.T) {
	// GIVEN: An empty store
	srv := newTestServer(t, false)
	doc := map[string]any{
		"id":              "care",
		"name":            "Care Award",
		"saturdayRate":    1.5,
		"hasSleepover":    true,
		"sleeperRate":     55.5,
		"mealAllowance1":  15.2,
		"nightShiftStart": "20:00",
	}

	// WHEN: Creating it
	rec := do(t, srv, http.MethodPost, "/api/awards", doc)

	// THEN: 201, readable, a second create conflicts
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/awards/care", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Care Award", got["name"])
	assert.Equal(t, 1.5, got["saturdayRate"])

	rec = do(t, srv, http.MethodPost, "/api/awards", doc)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/awards/care", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/awards/care", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/awards/care", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAwards_CreateInvalid(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"id":`},
		{"missing id", map[string]any{"name": "No id"}},
		{"bad window", map[string]any{"id": "x", "nightShiftStart": "25:00"}},
		{"zero max daily hours", map[string]any{"id": "x", "maxDailyHours": 0}},
		{"negative rate", map[string]any{"id": "x", "overtimeRate": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/awards", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestAwards_Update(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodPut, "/api/awards/hospitality", map[string]any{"name": "Hospitality 2025", "sundayRate": 1.8})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeBody[map[string]any](t, do(t, srv, http.MethodGet, "/api/awards/hospitality", nil))
	assert.Equal(t, "Hospitality 2025", got["name"])
	assert.Equal(t, 1.8, got["sundayRate"])

	rec = do(t, srv, http.MethodPut, "/api/awards/hospitality", map[string]any{"id": "other"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// TABLES
// =============================================================================

func TestTables(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodGet, "/api/tables/2024-2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ts := decodeBody[map[string]any](t, rec)
	brackets := ts["taxBrackets"].([]any)
	require.Len(t, brackets, 5)
	assert.Nil(t, brackets[4].(map[string]any)["max"], "top bracket is unbounded")

	rec = do(t, srv, http.MethodGet, "/api/tables/1999-2000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	next := map[string]any{
		"taxBrackets":         []map[string]any{{"min": 0, "max": 20000, "rate": 0}, {"min": 20000, "max": nil, "rate": 0.2}},
		"repaymentThresholds": []map[string]any{{"min": 0, "max": nil, "rate": 0}},
	}
	rec = do(t, srv, http.MethodPut, "/api/tables/2025-2026", next)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	years := decodeBody[[]map[string]any](t, do(t, srv, http.MethodGet, "/api/tables", nil))
	require.Len(t, years, 2)
	assert.Equal(t, "2024-2025", years[0]["year"])
	assert.Equal(t, "2025-2026", years[1]["year"])

	overlapping := map[string]any{
		"taxBrackets":         []map[string]any{{"min": 0, "max": 20000, "rate": 0}, {"min": 10000, "max": nil, "rate": 0.2}},
		"repaymentThresholds": []map[string]any{{"min": 0, "max": nil, "rate": 0}},
	}
	rec = do(t, srv, http.MethodPut, "/api/tables/2026-2027", overlapping)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CLASSIFY
// =============================================================================

func TestClassifyHours(t *testing.T) {
	// GIVEN: Ten plain weekday hours under General Retail
	srv := newTestServer(t, true)

	// WHEN: Classifying
	rec := do(t, srv, http.MethodPost, "/api/hours/classify", map[string]any{
		"award_id": "general-retail",
		"shifts":   tenHourWeekday,
	})

	// THEN: Eight normal and two tier-one overtime hours, with a warning
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[ClassifyResponse](t, rec)
	assert.Equal(t, 8.0, res.Totals.Normal)
	assert.Equal(t, 2.0, res.Totals.Overtime1)
	assert.Equal(t, 10.0, res.Totals.Total)
	require.Len(t, res.Shifts, 1)
	assert.Equal(t, "normal", res.Shifts[0].Category)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "overtime", res.Warnings[0].Code)
}

func TestClassifyHours_Errors(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"no shifts", map[string]any{"award_id": "general-retail", "shifts": []any{}}, http.StatusBadRequest},
		{"no award", map[string]any{"shifts": tenHourWeekday}, http.StatusBadRequest},
		{"unknown award", map[string]any{"award_id": "nope", "shifts": tenHourWeekday}, http.StatusNotFound},
		{"bad employment", map[string]any{"award_id": "general-retail", "employment_type": "contractor", "shifts": tenHourWeekday}, http.StatusBadRequest},
		{"end before start", map[string]any{"award_id": "general-retail", "shifts": []map[string]any{{"start": "2025-03-12T13:00", "end": "2025-03-12T03:00"}}}, http.StatusBadRequest},
		{"missing end", map[string]any{"award_id": "general-retail", "shifts": []map[string]any{{"start": "2025-03-12T13:00"}}}, http.StatusBadRequest},
		{"garbage timestamp", map[string]any{"award_id": "general-retail", "shifts": []map[string]any{{"start": "tuesday", "end": "wednesday"}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/hours/classify", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

// =============================================================================
// PAY
// =============================================================================

func TestCalculatePay_ManualHours(t *testing.T) {
	// GIVEN: 38 normal hours at $25, weekly, General Retail
	srv := newTestServer(t, true)

	// WHEN: Calculating
	rec := do(t, srv, http.MethodPost, "/api/pay/calculate", map[string]any{
		"award_id":  "general-retail",
		"base_rate": 25,
		"hours":     map[string]any{"normal": 38},
	})

	// THEN: Gross 950 and net after 2024-2025 tax
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[PayResponse](t, rec)
	assert.Equal(t, 950.0, res.Gross)
	assert.Equal(t, 125.41, res.Tax)
	assert.Equal(t, 0.0, res.LoanRepayment)
	assert.Equal(t, 824.59, res.Net)
	assert.Equal(t, int64(52), res.PeriodsPerYear)
	assert.Equal(t, "weekly", res.PayPeriod)
	assert.Equal(t, "2024-2025", res.Year)
	assert.Nil(t, res.Schedule)
}

func TestCalculatePay_Shifts(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodPost, "/api/pay/calculate", map[string]any{
		"award_id":  "general-retail",
		"base_rate": 25,
		"shifts":    tenHourWeekday,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[PayResponse](t, rec)
	// 8 x 25 + 2 x 25 x 1.5; 14300 a year is below the tax-free threshold
	assert.Equal(t, 200.0, res.Components.Normal)
	assert.Equal(t, 75.0, res.Components.Overtime1)
	assert.Equal(t, 275.0, res.Gross)
	assert.Equal(t, 0.0, res.Tax)
	assert.Equal(t, 275.0, res.Net)
	require.NotNil(t, res.Schedule)
	assert.Equal(t, 10.0, res.Schedule.Totals.Total)
}

func TestCalculatePay_Errors(t *testing.T) {
	srv := newTestServer(t, true)
	hours := map[string]any{"normal": 38}

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"zero base rate", map[string]any{"award_id": "general-retail", "base_rate": 0, "hours": hours}, http.StatusBadRequest},
		{"bad period", map[string]any{"award_id": "general-retail", "base_rate": 25, "pay_period": "monthly", "hours": hours}, http.StatusBadRequest},
		{"neither hours nor shifts", map[string]any{"award_id": "general-retail", "base_rate": 25}, http.StatusBadRequest},
		{"both hours and shifts", map[string]any{"award_id": "general-retail", "base_rate": 25, "hours": hours, "shifts": tenHourWeekday}, http.StatusBadRequest},
		{"negative hours", map[string]any{"award_id": "general-retail", "base_rate": 25, "hours": map[string]any{"normal": -1}}, http.StatusBadRequest},
		{"unknown custom allowance", map[string]any{"award_id": "general-retail", "base_rate": 25, "hours": hours, "allowances": map[string]any{"custom": []string{"tools"}}}, http.StatusBadRequest},
		{"unknown award", map[string]any{"award_id": "nope", "base_rate": 25, "hours": hours}, http.StatusNotFound},
		{"unknown year", map[string]any{"award_id": "general-retail", "base_rate": 25, "year": "1999-2000", "hours": hours}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/pay/calculate", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefaults(t *testing.T) {
	srv := newTestServer(t, false)

	presets := decodeBody[[]map[string]any](t, do(t, srv, http.MethodGet, "/api/defaults/awards", nil))
	assert.Len(t, presets, 3)

	// Presets are not stored until loaded
	assert.Empty(t, decodeBody[[]map[string]any](t, do(t, srv, http.MethodGet, "/api/awards", nil)))

	rec := do(t, srv, http.MethodPost, "/api/defaults/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SeedDTO{Awards: 3, TableSets: 1}, decodeBody[SeedDTO](t, rec))

	rec = do(t, srv, http.MethodPost, "/api/defaults/load", nil)
	assert.Equal(t, SeedDTO{}, decodeBody[SeedDTO](t, rec))
}

func TestHealthAndNotFound(t *testing.T) {
	srv := newTestServer(t, false)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/nothing", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPatch, "/api/awards", nil).Code)
}
