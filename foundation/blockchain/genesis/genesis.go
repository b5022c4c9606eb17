// Package genesis maintains access to the genesis file and the block
// derived from it.
package genesis

import (
	"encoding/json"
	"os"
	"time"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time `json:"date"`
	ChainID    uint16    `json:"chain_id"`   // The chain id represents an unique id for this running instance.
	Difficulty uint      `json:"difficulty"` // Number of leading zero bits required to solve the work problem.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Block derives the genesis block for the chain. Every field is fixed by the
// genesis file, so node and miners compute the identical block and the
// identical digest. PROTOCOL RULE: the genesis block is exempt from the
// difficulty predicate; a parentless block is accepted only when it is equal
// to this derived block.
func (g Genesis) Block() block.Block {
	b := block.Block{
		Header: block.Header{
			Height:     0,
			ParentID:   "",
			Nonce:      0,
			TimeStamp:  uint64(g.Date.UTC().Unix()),
			MinerLabel: block.GenesisLabel,
			Move:       block.MoveY,
		},
	}
	b.ID = b.Hash()

	return b
}
