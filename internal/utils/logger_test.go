package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)
	fn()
	return buf.String()
}

func TestLogEventRendersMissingRequestIDAsDash(t *testing.T) {
	out := captureLog(t, func() {
		LogEvent("", "webhook", "handle", "payment finalized")
	})
	if !strings.Contains(out, "request_id=- ") {
		t.Fatalf("missing request id should render as dash: %q", out)
	}
	if !strings.Contains(out, "[WEBHOOK]") {
		t.Fatalf("module tag missing: %q", out)
	}
}

func TestLogEventKeepsProvidedRequestID(t *testing.T) {
	out := captureLog(t, func() {
		LogEvent("req-42", "wallet", "credit", "ok")
	})
	if !strings.Contains(out, "request_id=req-42") {
		t.Fatalf("request id dropped: %q", out)
	}
}
