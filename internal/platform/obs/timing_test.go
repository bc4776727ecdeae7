package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(flags)
	})
	return &buf
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "-" {
		t.Fatalf("RequestID(empty) = %q, want -", got)
	}
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("RequestID = %q, want abc", got)
	}
}

func TestTime_LogsOpAndError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "r1")

	err := errors.New("boom")
	Time(ctx, "search")(&err)

	line := buf.String()
	for _, want := range []string{"req_id=r1", "op=search", "err=boom"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}

func TestTime_NilErrorOmitsErr(t *testing.T) {
	buf := captureLog(t)

	var err error
	Time(context.Background(), "compose")(&err)

	if strings.Contains(buf.String(), "err=") {
		t.Fatalf("log line %q should not carry err", buf.String())
	}
}
