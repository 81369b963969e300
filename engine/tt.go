package engine

import (
	"unsafe"

	"github.com/oliverans/goknight/position"
)

// Bound records whether a transposition entry's score is exact or was
// produced by an alpha/beta cutoff (and so is only a bound on the true value).
type Bound int8

const (
	BoundNone Bound = iota
	BoundExact
	BoundAlpha
	BoundBeta
)

// unusableScore is returned by Probe when no usable entry is found.
const unusableScore = -32750

// TTEntry is one slot of a transposition table cluster. Age records which
// search generation last wrote the entry, so Store can prefer replacing a
// stale entry from an earlier search over a shallower one from the current
// search.
type TTEntry struct {
	Hash  uint64
	Depth int8
	Move  position.Move
	Score int16
	Bound Bound
	Age   uint8
}

// clusterSize entries share a hash bucket; probing scans the whole cluster
// (cache-line-friendly clustered open addressing rather than chaining).
const clusterSize = 4

// ageReplacementWeight converts one generation of staleness into an
// equivalent amount of depth when scoring a cluster slot for eviction, so a
// deep entry from an old search still loses to a shallow entry from the
// current one once it has aged past a couple of generations.
const ageReplacementWeight = 4

// TranspositionTable is a fixed-size, always-allocated hash table of search
// results keyed by Zobrist hash, sized in megabytes via NewTranspositionTable.
type TranspositionTable struct {
	entries      []TTEntry
	clusterCount uint64
	generation   uint8
}

// NewSearch bumps the table's generation counter, marking every entry stored
// before this point as one generation older. Call once per "go" command so
// Store's replacement policy favors keeping entries from the search in
// progress over stale ones left by a previous position.
func (tt *TranspositionTable) NewSearch() {
	tt.generation++
}

// relativeAge returns how many generations behind the table's current
// generation an entry is, wrapping correctly around the uint8 boundary.
func (tt *TranspositionTable) relativeAge(e TTEntry) int {
	return int(uint8(tt.generation - e.Age))
}

// Hashfull estimates table occupancy in permille (0-1000) for the UCI
// "info ... hashfull" field, by sampling the first 1000 slots for entries
// written during the current search generation.
func (tt *TranspositionTable) Hashfull() int {
	sample := 1000
	if sample > len(tt.entries) {
		sample = len(tt.entries)
	}
	if sample == 0 {
		return 0
	}
	filled := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Hash != 0 && tt.entries[i].Age == tt.generation {
			filled++
		}
	}
	return filled * 1000 / sample
}

func NewTranspositionTable(megabytes int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(megabytes)
	return tt
}

// Resize reallocates the table for the given size in megabytes, discarding
// all entries; used by the "Hash" UCI setoption.
func (tt *TranspositionTable) Resize(megabytes int) {
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	if entrySize == 0 {
		entrySize = 1
	}
	totalBytes := uint64(megabytes) * 1024 * 1024
	clusterBytes := entrySize * clusterSize
	clusterCount := totalBytes / clusterBytes
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]TTEntry, clusterCount*clusterSize)
	tt.generation = 0
}

// Clear zeroes every entry without reallocating, for the "Clear Hash" setoption.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.generation = 0
}

func (tt *TranspositionTable) cluster(hash uint64) []TTEntry {
	idx := hash % tt.clusterCount
	start := idx * clusterSize
	return tt.entries[start : start+clusterSize]
}

// Get returns the raw entry for hash, if the cluster holds one.
func (tt *TranspositionTable) Get(hash uint64) (TTEntry, bool) {
	for _, e := range tt.cluster(hash) {
		if e.Hash == hash {
			return e, true
		}
	}
	return TTEntry{}, false
}

// Probe reports whether the stored entry for hash can resolve the current
// search node at the given depth/alpha/beta/ply without further search, and
// if so its usable score (mate scores rebased from storage-relative back to
// the current root-relative ply). excluded suppresses hits whose stored move
// matches it, for singular-extension verification searches.
func (tt *TranspositionTable) Probe(hash uint64, depth int, alpha, beta int16, ply int, excluded position.Move) (usable bool, score int16, entry TTEntry) {
	e, found := tt.Get(hash)
	if !found {
		return false, unusableScore, TTEntry{}
	}
	entry = e
	if excluded != 0 && e.Move == excluded {
		return false, unusableScore, entry
	}
	if int(e.Depth) < depth {
		return false, unusableScore, entry
	}
	norm := unmateFromStorage(e.Score, ply)
	switch e.Bound {
	case BoundExact:
		return true, norm, entry
	case BoundAlpha:
		if norm <= alpha {
			return true, alpha, entry
		}
	case BoundBeta:
		if norm >= beta {
			return true, beta, entry
		}
	}
	return false, unusableScore, entry
}

// Store writes (or updates) the cluster slot for hash: an exact-hash match
// is always preferred, then an empty slot, then the slot with the lowest
// depth-minus-age-penalty score is evicted, so a deep entry only survives a
// few generations before a shallow, current-generation entry can replace it.
func (tt *TranspositionTable) Store(hash uint64, depth, ply int, move position.Move, score int16, bound Bound) {
	cluster := tt.cluster(hash)
	stored := mateToStorage(score, ply)

	target := -1
	for i := range cluster {
		if cluster[i].Hash == hash {
			target = i
			break
		}
	}
	if target == -1 {
		for i := range cluster {
			if cluster[i].Hash == 0 {
				target = i
				break
			}
		}
	}
	if target == -1 {
		target = 0
		worst := int(cluster[0].Depth) - ageReplacementWeight*tt.relativeAge(cluster[0])
		for i := 1; i < len(cluster); i++ {
			s := int(cluster[i].Depth) - ageReplacementWeight*tt.relativeAge(cluster[i])
			if s < worst {
				worst = s
				target = i
			}
		}
	}
	cluster[target] = TTEntry{Hash: hash, Depth: int8(depth), Move: move, Score: stored, Bound: bound, Age: tt.generation}
}

// mateToStorage/unmateFromStorage convert between root-relative mate scores
// (distance to mate counted from the search root) and ply-independent
// storage form (distance to mate counted from the position stored), so a
// mate score found at one ply is still meaningful when probed at another.
func mateToStorage(score int16, ply int) int16 {
	if score > Checkmate {
		return score + int16(ply)
	}
	if score < -Checkmate {
		return score - int16(ply)
	}
	return score
}

func unmateFromStorage(score int16, ply int) int16 {
	if score > Checkmate {
		return score - int16(ply)
	}
	if score < -Checkmate {
		return score + int16(ply)
	}
	return score
}
