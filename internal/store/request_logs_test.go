// ABOUTME: Tests for request log storage.
// ABOUTME: Covers inserts, filtered queries, and aggregate stats.

package store

import "testing"

func TestLogRequestAndQuery(t *testing.T) {
	s := newTestStore(t)

	logs := []*RequestLog{
		{Surface: "events", Method: "POST", Path: "/api/events", StatusCode: 200, DurationMs: 42},
		{Surface: "events", Method: "POST", Path: "/api/events", StatusCode: 500, DurationMs: 10, Error: "upstream down"},
		{Surface: "setup", Method: "POST", Path: "/api/setup", StatusCode: 200, DurationMs: 120},
	}
	for _, l := range logs {
		if err := s.LogRequest(l); err != nil {
			t.Fatalf("LogRequest() error = %v", err)
		}
	}

	got, err := s.GetRequestLogs(&RequestLogQuery{Surface: "events"})
	if err != nil {
		t.Fatalf("GetRequestLogs() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}

	got, err = s.GetRequestLogs(&RequestLogQuery{StatusCode: 500})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Error != "upstream down" {
		t.Errorf("status filter got %+v", got)
	}
}

func TestGetRequestLogStats(t *testing.T) {
	s := newTestStore(t)
	for _, code := range []int{200, 200, 404} {
		if err := s.LogRequest(&RequestLog{Surface: "events", Method: "POST", Path: "/api/events", StatusCode: code, DurationMs: 30}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.GetRequestLogStats()
	if err != nil {
		t.Fatalf("GetRequestLogStats() error = %v", err)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", stats.TotalRequests)
	}
	if stats.ErrorRequests != 1 {
		t.Errorf("ErrorRequests = %d, want 1", stats.ErrorRequests)
	}
	if stats.AvgDurationMs != 30 {
		t.Errorf("AvgDurationMs = %d, want 30", stats.AvgDurationMs)
	}
}
