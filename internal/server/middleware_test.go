package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRecoveryWritesJSONError(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs)

	h := requestID(logging(logger)(recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeError(t, rec.Result())
	if resp.Code != "INTERNAL_ERROR" || resp.RequestID == "" {
		t.Errorf("error = %+v", resp)
	}
	if !strings.Contains(logs.String(), "panic recovered") {
		t.Errorf("missing panic log:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "status=500") {
		t.Errorf("request log should record status 500:\n%s", logs.String())
	}
}

func TestRecoveryKeepsSentResponse(t *testing.T) {
	logger := log.New(&bytes.Buffer{})
	h := recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestLoggingDefaultsToOK(t *testing.T) {
	var logs bytes.Buffer
	h := logging(log.New(&logs))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quiet", nil))

	if !strings.Contains(logs.String(), "status=200") || !strings.Contains(logs.String(), "path=/quiet") {
		t.Errorf("request log = %q", logs.String())
	}
}
