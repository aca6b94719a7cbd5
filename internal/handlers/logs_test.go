package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"greenhouse_dashboard/internal/models"
	"greenhouse_dashboard/internal/upstream"
)

func mkLogs() []models.LogRecord {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	levels := []models.LogLevel{
		models.LevelDebug, models.LevelInfo, models.LevelWarn,
		models.LevelError, models.LevelInfo,
	}
	out := make([]models.LogRecord, len(levels))
	for i, lv := range levels {
		out[i] = models.LogRecord{
			When:    base.Add(time.Duration(i) * time.Minute),
			Level:   lv,
			Message: fmt.Sprintf("entry %d", i),
		}
	}
	return out
}

func TestGetLogs(t *testing.T) {
	gh := &mockGreenhouse{logRecords: mkLogs()}
	r, _ := newDashboardRouter(gh)

	w := doAuthed(r, http.MethodGet, "/api/v1/logs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Count   int                `json:"count"`
		Records []models.LogRecord `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 5 {
		t.Fatalf("count=%d, want 5", resp.Count)
	}
	if gh.logsCalls != 1 {
		t.Fatalf("Logs calls=%d, want 1", gh.logsCalls)
	}
}

func TestGetLogs_LevelNarrowsAndLimitTails(t *testing.T) {
	gh := &mockGreenhouse{logRecords: mkLogs()}
	r, _ := newDashboardRouter(gh)

	w := doAuthed(r, http.MethodGet, "/api/v1/logs?level=warn", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Count   int                `json:"count"`
		Records []models.LogRecord `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("warn+ count=%d, want 2 (got %+v)", resp.Count, resp.Records)
	}
	for _, rec := range resp.Records {
		if rec.Level.Severity() < models.LevelWarn.Severity() {
			t.Fatalf("record below warn leaked: %+v", rec)
		}
	}

	w = doAuthed(r, http.MethodGet, "/api/v1/logs?limit=2", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 2 {
		t.Fatalf("limit=2 count=%d", resp.Count)
	}
	if resp.Records[1].Message != "entry 4" {
		t.Fatalf("limit did not keep the tail: %+v", resp.Records)
	}
}

func TestGetLogs_BadLevel(t *testing.T) {
	gh := &mockGreenhouse{logRecords: mkLogs()}
	r, _ := newDashboardRouter(gh)

	w := doAuthed(r, http.MethodGet, "/api/v1/logs?level=screaming", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestGetLogs_UpstreamDown(t *testing.T) {
	gh := &mockGreenhouse{logsErr: fmt.Errorf("request: %w", upstream.ErrTransport)}
	r, _ := newDashboardRouter(gh)

	w := doAuthed(r, http.MethodGet, "/api/v1/logs", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d (body=%s)", w.Code, w.Body.String())
	}
}
