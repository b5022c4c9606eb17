package private

import (
	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/validate"
)

// submitHeader is the wire form of a block header in a submission.
type submitHeader struct {
	Height     uint64 `json:"height"`
	ParentID   string `json:"parent_id"`
	Nonce      uint64 `json:"nonce"`
	TimeStamp  uint64 `json:"timestamp"`
	MinerLabel string `json:"miner_label" validate:"required"`
	Move       string `json:"move" validate:"required,oneof=Y M C A"`
}

// submitBlock is the payload of a block submission.
type submitBlock struct {
	Header submitHeader `json:"block"`
	ID     string       `json:"id" validate:"required"`
}

// Validate checks the submission has the fields a well formed block needs.
// Consensus checks happen later in the state layer; this only rejects
// payloads no honest miner would produce.
func (sb submitBlock) Validate() error {
	return validate.Check(sb)
}

// toBlock converts the wire form into a block value.
func toBlock(sb submitBlock) block.Block {
	return block.Block{
		Header: block.Header{
			Height:     sb.Header.Height,
			ParentID:   sb.Header.ParentID,
			Nonce:      sb.Header.Nonce,
			TimeStamp:  sb.Header.TimeStamp,
			MinerLabel: sb.Header.MinerLabel,
			Move:       block.Move(sb.Header.Move),
		},
		ID: sb.ID,
	}
}

// registerMiner is the payload of a miner registration.
type registerMiner struct {
	MinerLabel string `json:"miner_label" validate:"required"`
}

// Validate checks the registration payload.
func (rm registerMiner) Validate() error {
	return validate.Check(rm)
}
