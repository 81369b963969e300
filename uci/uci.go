// Package uci implements a Universal Chess Interface loop around an
// engine.Engine, dispatching the uci/isready/ucinewgame/position/go/stop/
// quit/setoption commands over an io.Reader/io.Writer pair instead of
// hardcoded stdin/stdout so it can be exercised by tests.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oliverans/goknight/engine"
	"github.com/oliverans/goknight/position"
)

const (
	engineName   = "goknight 0.1"
	engineAuthor = "goknight contributors"

	defaultHashMB = 64
	minHashMB     = 1
	maxHashMB     = 4096

	defaultMoveTimeMs = 5000
	defaultMaxDepth   = 64
)

// Loop reads UCI commands from in and writes protocol responses to out
// until "quit" is received or the input stream ends.
type Loop struct {
	in     *bufio.Scanner
	out    io.Writer
	engine *engine.Engine
	pos    *position.Position
	hashMB int
}

func NewLoop(in io.Reader, out io.Writer) *Loop {
	return &Loop{
		in:     bufio.NewScanner(in),
		out:    out,
		engine: engine.NewEngine(defaultHashMB),
		pos:    mustStartPosition(),
		hashMB: defaultHashMB,
	}
}

func mustStartPosition() *position.Position {
	p, err := position.ParseFEN(position.StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

func (l *Loop) printf(format string, args ...any) {
	fmt.Fprintf(l.out, format, args...)
}

// Run drives the loop; it returns when "quit" is read or the input
// scanner reaches EOF.
func (l *Loop) Run() {
	for l.in.Scan() {
		line := l.in.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "uci":
			l.handleUCI()
		case "isready":
			l.printf("readyok\n")
		case "ucinewgame":
			l.engine.NewGame()
			l.pos = mustStartPosition()
		case "position":
			l.handlePosition(fields[1:])
		case "go":
			l.handleGo(fields[1:])
		case "stop":
			l.engine.Stop()
		case "quit":
			return
		case "setoption":
			l.handleSetOption(fields[1:])
		default:
			l.printf("info string unknown command %s\n", fields[0])
		}
	}
}

func (l *Loop) handleUCI() {
	l.printf("id name %s\n", engineName)
	l.printf("id author %s\n", engineAuthor)
	l.printf("option name Hash type spin default %d min %d max %d\n", defaultHashMB, minHashMB, maxHashMB)
	l.printf("option name Clear Hash type button\n")
	l.printf("uciok\n")
}

func (l *Loop) handleSetOption(fields []string) {
	// Expected shape: "name <Name...> value <Value...>"
	joined := strings.Join(fields, " ")
	lower := strings.ToLower(joined)
	nameIdx := strings.Index(lower, "name ")
	if nameIdx == -1 {
		l.printf("info string malformed setoption command\n")
		return
	}
	rest := joined[nameIdx+len("name "):]
	valueIdx := strings.Index(strings.ToLower(rest), " value ")

	var name, value string
	if valueIdx == -1 {
		name = strings.TrimSpace(rest)
	} else {
		name = strings.TrimSpace(rest[:valueIdx])
		value = strings.TrimSpace(rest[valueIdx+len(" value "):])
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < minHashMB {
			l.printf("info string invalid Hash value %q\n", value)
			return
		}
		if mb > maxHashMB {
			mb = maxHashMB
		}
		l.hashMB = mb
		l.engine.TT.Resize(mb)
	case "clear hash":
		l.engine.TT.Clear()
	default:
		l.printf("info string unknown option %s\n", name)
	}
}

func (l *Loop) handlePosition(fields []string) {
	if len(fields) == 0 {
		l.printf("info string malformed position command\n")
		return
	}

	idx := 0
	var p *position.Position
	var err error
	switch strings.ToLower(fields[0]) {
	case "startpos":
		p = mustStartPosition()
		idx = 1
	case "fen":
		idx = 1
		fenFields := []string{}
		for idx < len(fields) && strings.ToLower(fields[idx]) != "moves" {
			fenFields = append(fenFields, fields[idx])
			idx++
		}
		if len(fenFields) == 0 {
			l.printf("info string invalid fen position\n")
			return
		}
		p, err = position.ParseFEN(strings.Join(fenFields, " "))
		if err != nil {
			l.printf("info string invalid fen position: %v\n", err)
			return
		}
	default:
		l.printf("info string invalid position subcommand %s\n", fields[0])
		return
	}

	hashes := []uint64{p.Hash()}
	rule50s := []int{p.HalfmoveClock()}

	if idx < len(fields) && strings.ToLower(fields[idx]) == "moves" {
		idx++
		for ; idx < len(fields); idx++ {
			moveStr := strings.ToLower(fields[idx])
			found, err := p.ParseUCIMove(moveStr)
			if err != nil || found == position.NullMove {
				l.printf("info string move %s not found for current position\n", moveStr)
				return
			}
			p.MakeMove(found)
			hashes = append(hashes, p.Hash())
			rule50s = append(rule50s, p.HalfmoveClock())
		}
	}

	l.pos = p
	l.engine.SetHistory(hashes, rule50s)
}

type goOptions struct {
	wtime, btime   int
	winc, binc     int
	movetime       int
	depth          int
	infinite       bool
	hasDepth       bool
	hasMovetime    bool
}

func (l *Loop) handleGo(fields []string) {
	opts := parseGoOptions(fields, l.printf)

	side := l.pos.SideToMove()
	var tm *engine.TimeManager
	maxDepth := defaultMaxDepth

	switch {
	case opts.hasMovetime:
		tm = engine.NewMoveTimeManager(opts.movetime)
	case opts.infinite:
		tm = engine.NewFixedDepthTimeManager()
	case opts.hasDepth:
		tm = engine.NewFixedDepthTimeManager()
		maxDepth = opts.depth
	default:
		remaining, increment := opts.wtime, opts.winc
		if side == position.Black {
			remaining, increment = opts.btime, opts.binc
		}
		if remaining <= 0 {
			remaining = defaultMoveTimeMs
		}
		tm = engine.NewClockTimeManager(remaining, increment, estimatePhase(l.pos))
	}

	l.engine.OnInfo = func(info engine.Info) {
		if info.Mate != 0 {
			l.printf("info depth %d seldepth %d score mate %d nodes %d nps %d time %d hashfull %d pv %s\n",
				info.Depth, info.SelDepth, info.Mate, info.Nodes, info.NPS, info.Time.Milliseconds(), info.Hashfull, info.PV.String())
		} else {
			l.printf("info depth %d seldepth %d score cp %d nodes %d nps %d time %d hashfull %d pv %s\n",
				info.Depth, info.SelDepth, info.Score, info.Nodes, info.NPS, info.Time.Milliseconds(), info.Hashfull, info.PV.String())
		}
	}

	best := l.engine.Search(l.pos, maxDepth, tm)
	l.printf("bestmove %s\n", best.String())
}

func parseGoOptions(fields []string, warn func(format string, args ...any)) goOptions {
	var o goOptions
	for i := 0; i < len(fields); i++ {
		tok := strings.ToLower(fields[i])
		next := func() (string, bool) {
			if i+1 >= len(fields) {
				return "", false
			}
			i++
			return fields[i], true
		}
		switch tok {
		case "infinite":
			o.infinite = true
		case "wtime":
			if v, ok := next(); ok {
				o.wtime, _ = strconv.Atoi(v)
			}
		case "btime":
			if v, ok := next(); ok {
				o.btime, _ = strconv.Atoi(v)
			}
		case "winc":
			if v, ok := next(); ok {
				o.winc, _ = strconv.Atoi(v)
			}
		case "binc":
			if v, ok := next(); ok {
				o.binc, _ = strconv.Atoi(v)
			}
		case "movetime":
			if v, ok := next(); ok {
				o.movetime, _ = strconv.Atoi(v)
				o.hasMovetime = true
			}
		case "depth":
			if v, ok := next(); ok {
				o.depth, _ = strconv.Atoi(v)
				o.hasDepth = true
			}
		case "movestogo", "nodes", "mate", "ponder":
			next()
		default:
			warn("info string unknown go subcommand %s\n", tok)
		}
	}
	return o
}

func estimatePhase(p *position.Position) int {
	phase := 0
	for _, c := range []position.Color{position.White, position.Black} {
		phase += popcount(p.Pieces(c, position.PieceTypeKnight)) + popcount(p.Pieces(c, position.PieceTypeBishop))
		phase += popcount(p.Pieces(c, position.PieceTypeRook)) * 2
		phase += popcount(p.Pieces(c, position.PieceTypeQueen)) * 4
	}
	return phase
}

func popcount(bb position.Bitboard) int {
	count := 0
	for bb != 0 {
		bb &= bb - 1
		count++
	}
	return count
}
