// Command uci runs the engine as a UCI-speaking subprocess over stdin/stdout,
// the way a GUI (Arena, cutechess, a lichess bot bridge) launches it.
package main

import (
	"os"

	"github.com/oliverans/goknight/uci"
)

func main() {
	uci.NewLoop(os.Stdin, os.Stdout).Run()
}
