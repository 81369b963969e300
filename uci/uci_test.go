package uci

import (
	"bytes"
	"strings"
	"testing"
)

func TestUCIHandshake(t *testing.T) {
	in := strings.NewReader("uci\nisready\nquit\n")
	var out bytes.Buffer
	NewLoop(in, &out).Run()

	got := out.String()
	if !strings.Contains(got, "uciok") {
		t.Fatalf("expected uciok in output, got %q", got)
	}
	if !strings.Contains(got, "readyok") {
		t.Fatalf("expected readyok in output, got %q", got)
	}
	if !strings.Contains(got, "id name") {
		t.Fatalf("expected an id name line, got %q", got)
	}
}

func TestUCISetOptionHashResizesTable(t *testing.T) {
	in := strings.NewReader("setoption name Hash value 16\nisready\nquit\n")
	var out bytes.Buffer
	loop := NewLoop(in, &out)
	loop.Run()

	if loop.hashMB != 16 {
		t.Fatalf("expected hash size to update to 16, got %d", loop.hashMB)
	}
}

func TestUCIPositionStartposWithMoves(t *testing.T) {
	in := strings.NewReader("position startpos moves e2e4 e7e5\nisready\nquit\n")
	var out bytes.Buffer
	loop := NewLoop(in, &out)
	loop.Run()

	if got := out.String(); strings.Contains(got, "not found") {
		t.Fatalf("expected both moves to apply cleanly, got %q", got)
	}
}

func TestUCIGoWithFixedDepthReturnsBestMove(t *testing.T) {
	in := strings.NewReader("position startpos\ngo depth 2\nquit\n")
	var out bytes.Buffer
	NewLoop(in, &out).Run()

	got := out.String()
	if !strings.Contains(got, "bestmove") {
		t.Fatalf("expected a bestmove line, got %q", got)
	}
}
