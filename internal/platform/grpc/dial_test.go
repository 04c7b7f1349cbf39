package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestProbeServing(t *testing.T) {
	addr, h, stop := startHealthServer(t)
	defer stop()
	h.SetServing(testService, true)

	if err := Probe(context.Background(), addr, testService, 2*time.Second, nil); err != nil {
		t.Fatalf("probe: %v", err)
	}
}

func TestProbeNotServing(t *testing.T) {
	addr, _, stop := startHealthServer(t)
	defer stop()

	err := Probe(context.Background(), addr, testService, 300*time.Millisecond, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected ProbeError, got %T", err)
	}
	if probeErr.Stage != ProbeStageHealth {
		t.Fatalf("stage = %q, want %q", probeErr.Stage, ProbeStageHealth)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestProbeUnknownService(t *testing.T) {
	addr, h, stop := startHealthServer(t)
	defer stop()
	h.SetServing(testService, true)

	if err := Probe(context.Background(), addr, "other", 300*time.Millisecond, nil); err == nil {
		t.Fatal("expected error for unregistered service")
	}
}

func TestProbeLogs(t *testing.T) {
	addr, h, stop := startHealthServer(t)
	defer stop()
	h.SetServing(testService, true)

	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, format)
	}
	if err := Probe(context.Background(), addr, testService, 2*time.Second, logf); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(lines) == 0 || !strings.Contains(lines[len(lines)-1], "SERVING") {
		t.Fatalf("expected SERVING log line, got %v", lines)
	}
}

func TestProbeErrorFormatting(t *testing.T) {
	var nilErr *ProbeError
	if nilErr.Error() != "gRPC probe error" {
		t.Fatalf("nil error text = %q", nilErr.Error())
	}
	if nilErr.Unwrap() != nil {
		t.Fatal("expected nil unwrap")
	}

	err := &ProbeError{Addr: "localhost:1", Stage: ProbeStageConnect, Err: errors.New("boom")}
	if got := err.Error(); got != "probe localhost:1: gRPC connect error: boom" {
		t.Fatalf("error text = %q", got)
	}
}
