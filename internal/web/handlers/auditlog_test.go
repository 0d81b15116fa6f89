package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdumary/HawkEye/internal/audit"
)

func TestAccessLogWindow(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 60; i++ {
		app.ledger.Append(context.Background(),
			audit.NewEvent("soldier1", "John Smith", audit.OutcomeSuccess, fmt.Sprintf("area%d", i), ""))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/access-log", nil)
	req = app.requestAs(t, req, "soldier2")
	rec := httptest.NewRecorder()

	app.auditlog.AccessLog(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var resp struct {
		Log []audit.Event `json:"log"`
	}
	parseJSONResponse(t, rec, &resp)
	if len(resp.Log) != 50 {
		t.Fatalf("expected the default window of 50 events, got %d", len(resp.Log))
	}
	// Oldest of the window first, and the newest event present.
	if resp.Log[0].Area != "area10" || resp.Log[49].Area != "area59" {
		t.Errorf("unexpected window: %s .. %s", resp.Log[0].Area, resp.Log[49].Area)
	}
}

func TestAccessLogLimit(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 10; i++ {
		app.ledger.Append(context.Background(),
			audit.NewEvent("soldier1", "John Smith", audit.OutcomeDenied, "armory", "insufficient clearance"))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/access-log?limit=3", nil)
	req = app.requestAs(t, req, "soldier2")
	rec := httptest.NewRecorder()

	app.auditlog.AccessLog(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var resp struct {
		Log []audit.Event `json:"log"`
	}
	parseJSONResponse(t, rec, &resp)
	if len(resp.Log) != 3 {
		t.Errorf("expected 3 events, got %d", len(resp.Log))
	}
}

func TestAccessLogInvalidLimit(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/access-log?limit=bogus", nil)
	req = app.requestAs(t, req, "soldier2")
	rec := httptest.NewRecorder()

	app.auditlog.AccessLog(rec, req)

	assertStatusCode(t, rec, http.StatusBadRequest)
	assertJSONError(t, rec, "Invalid limit")
}

func TestAccessLogEmpty(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/access-log", nil)
	req = app.requestAs(t, req, "soldier2")
	rec := httptest.NewRecorder()

	app.auditlog.AccessLog(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var resp struct {
		Log []audit.Event `json:"log"`
	}
	parseJSONResponse(t, rec, &resp)
	if len(resp.Log) != 0 {
		t.Errorf("expected empty log, got %d events", len(resp.Log))
	}
}
