// Command profile runs a fixed-depth search against a position under a CPU
// profiler, for finding hot spots in move generation and search.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/oliverans/goknight/engine"
	"github.com/oliverans/goknight/position"
)

func main() {
	fen := flag.String("fen", position.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 8, "fixed search depth")
	hashMB := flag.Int("hash", 64, "transposition table size in megabytes")
	mode := flag.String("mode", "cpu", "profile.Profile mode: cpu, mem, or trace")
	flag.Parse()

	pos, err := position.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	var stop interface{ Stop() }
	switch *mode {
	case "mem":
		stop = profile.Start(profile.MemProfile)
	case "trace":
		stop = profile.Start(profile.TraceProfile)
	default:
		stop = profile.Start(profile.CPUProfile)
	}
	defer stop.Stop()

	e := engine.NewEngine(*hashMB)
	tm := engine.NewFixedDepthTimeManager()

	start := time.Now()
	best := e.Search(pos, *depth, tm)
	elapsed := time.Since(start)

	fmt.Printf("bestmove %s in %s\n", best.String(), elapsed)
}
