package position

import "testing"

func TestPerftInitialPosition(t *testing.T) {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, c := range cases {
		if got := Perft(p, c.depth); got != c.want {
			t.Errorf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	p, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		if got := Perft(p, c.depth); got != c.want {
			t.Errorf("kiwipete depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftEnPassant(t *testing.T) {
	p, err := ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := Perft(p, 1); got != 5 {
		t.Errorf("EP depth1: got %d want 5", got)
	}
	if got := Perft(p, 2); got != 19 {
		t.Errorf("EP depth2: got %d want 19", got)
	}
}

func TestPerftPromotion(t *testing.T) {
	p, err := ParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := Perft(p, 1); got != 11 {
		t.Errorf("promotion depth1: got %d want 11", got)
	}
}

func TestPerftPosition3(t *testing.T) {
	p, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{{1, 14}, {2, 191}, {3, 2812}}
	for _, c := range cases {
		if got := Perft(p, c.depth); got != c.want {
			t.Errorf("pos3 depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftPosition4(t *testing.T) {
	p, err := ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{{1, 6}, {2, 264}, {3, 9467}}
	for _, c := range cases {
		if got := Perft(p, c.depth); got != c.want {
			t.Errorf("pos4 depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftPosition6(t *testing.T) {
	p, err := ParseFEN("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{{1, 46}, {2, 2079}, {3, 89890}}
	for _, c := range cases {
		if got := Perft(p, c.depth); got != c.want {
			t.Errorf("pos6 depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}
