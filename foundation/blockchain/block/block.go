// Package block implements the proof of work block model. The digest rules
// in this package are the compatibility contract of the network: every
// participant must produce bit-for-bit identical ids for identical blocks.
package block

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"math"
	"math/big"
	"math/bits"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// GenesisLabel is the miner label carried by the genesis block.
const GenesisLabel = "Genesis"

// tipCheckAttempts bounds how many hashes are attempted between checks of
// the cancellation context during a proof of work search.
const tipCheckAttempts = 1_000

// =============================================================================

// Header represents the fields the block id is computed over. The field
// order is fixed; changing it changes every digest on the network.
type Header struct {
	Height     uint64 `json:"height"`      // Parent's height plus one, 0 for genesis.
	ParentID   string `json:"parent_id"`   // Id of the parent block, empty for genesis.
	Nonce      uint64 `json:"nonce"`       // Value identified to solve the work puzzle.
	TimeStamp  uint64 `json:"timestamp"`   // Time the block was created, informational only.
	MinerLabel string `json:"miner_label"` // Free text identity of the producing miner.
	Move       Move   `json:"move"`        // Dance move chosen by the miner.
}

// Block represents one block in the chain. A block is immutable once it has
// been solved; its ID must always equal the digest recomputed from the header.
type Block struct {
	Header Header `json:"block"`
	ID     string `json:"id"`
}

// New constructs an unsolved candidate block on top of the specified parent.
// The ID is assigned by Solve once a nonce satisfying the difficulty is found.
func New(parent Block, minerLabel string, mv Move) Block {
	return Block{
		Header: Header{
			Height:     parent.Header.Height + 1,
			ParentID:   parent.ID,
			Nonce:      0,
			TimeStamp:  uint64(time.Now().UTC().Unix()),
			MinerLabel: minerLabel,
			Move:       mv,
		},
	}
}

// Hash computes the digest for the block from its header fields. The header
// struct keeps a fixed field order, which makes the json encoding canonical.
func (b Block) Hash() string {
	data, err := json.Marshal(b.Header)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// IsGenesis reports whether the block claims to be the parentless root.
func (b Block) IsGenesis() bool {
	return b.Header.Height == 0 && b.Header.ParentID == ""
}

// =============================================================================

// SatisfiesDifficulty reports whether the id meets the network difficulty,
// interpreted as the required number of leading zero bits in the digest.
func SatisfiesDifficulty(id string, difficulty uint) bool {
	digest, err := hexutil.Decode(id)
	if err != nil || len(digest) != sha256.Size {
		return false
	}

	var leading uint
	for _, byt := range digest {
		if byt == 0 {
			leading += 8
			continue
		}
		leading += uint(bits.LeadingZeros8(byt))
		break
	}

	return leading >= difficulty
}

// Solve performs the proof of work search for the block. It mutates the
// nonce until the digest satisfies the difficulty, then assigns the ID.
// The search honors context cancellation at a bounded attempt interval.
func (b *Block) Solve(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("block: Solve: MINING: started: parent[%s]", b.Header.ParentID)
	defer ev("block: Solve: MINING: completed")

	// Choose a random starting point for the nonce. After this, the nonce
	// will be incremented by 1 until a solution is found.
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return err
	}
	b.Header.Nonce = nBig.Uint64()

	var attempts uint64
	for {
		attempts++
		if attempts%tipCheckAttempts == 0 {
			if ctx.Err() != nil {
				ev("block: Solve: MINING: CANCELLED")
				return ctx.Err()
			}
		}
		if attempts%1_000_000 == 0 {
			ev("block: Solve: MINING: attempts[%d]", attempts)
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.Hash()
		if !SatisfiesDifficulty(hash, difficulty) {
			b.Header.Nonce++
			continue
		}

		// One more cancellation check so a stale solution is never
		// reported after the tip has moved.
		if ctx.Err() != nil {
			ev("block: Solve: MINING: CANCELLED")
			return ctx.Err()
		}

		b.ID = hash

		ev("block: Solve: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.ParentID, hash)
		ev("block: Solve: MINING: attempts[%d]", attempts)

		return nil
	}
}
