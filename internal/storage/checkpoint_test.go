package storage

import (
	"bytes"
	"strings"
	"testing"
)

func TestCheckpointsWriteRead(t *testing.T) {
	candidates := [][]float64{
		{0.5, -0.25, 1e-9},
		{0.1 + 0.2, -3},
	}
	var buf bytes.Buffer
	if err := WriteCheckpoints(&buf, candidates); err != nil {
		t.Fatalf("write: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("expected one line per candidate, got %d", lines)
	}
	if !strings.HasPrefix(buf.String(), "0.5,-0.25,1e-09\n") {
		t.Fatalf("unexpected first line: %q", buf.String())
	}

	loaded, err := ReadCheckpoints(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(loaded) != 2 || len(loaded[1]) != 2 || loaded[1][0] != 0.1+0.2 {
		t.Fatalf("checkpoint values changed: %v", loaded)
	}
}

func TestReadCheckpointsSkipsBlankAndRejectsGarbage(t *testing.T) {
	loaded, err := ReadCheckpoints(strings.NewReader("1,2\n\n3\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(loaded) != 2 || loaded[1][0] != 3 {
		t.Fatalf("unexpected candidates: %v", loaded)
	}
	if _, err := ReadCheckpoints(strings.NewReader("1,x\n")); err == nil {
		t.Fatal("expected parse error")
	}
}
