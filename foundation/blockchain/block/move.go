package block

// Move represents the dance move chosen by a miner for a block. It carries
// no consensus meaning; it is a payload field that participates in the digest.
type Move string

// Set of known dance moves.
const (
	MoveY Move = "Y"
	MoveM Move = "M"
	MoveC Move = "C"
	MoveA Move = "A"
)

// moves keeps the moves in their enumeration order for random selection.
var moves = [...]Move{MoveY, MoveM, MoveC, MoveA}

// IsValid reports whether the move is part of the known enumeration.
func (m Move) IsValid() bool {
	for _, mv := range moves {
		if m == mv {
			return true
		}
	}
	return false
}

// =============================================================================

// Source represents the behavior required of a randomness source for
// picking moves. A *math/rand.Rand satisfies this interface, and tests can
// supply a fixed sequence for determinism.
type Source interface {
	Intn(n int) int
}

// PickMove chooses a move uniformly at random from the specified source.
func PickMove(src Source) Move {
	return moves[src.Intn(len(moves))]
}
