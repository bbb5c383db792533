package database

import (
	"fmt"
	"time"

	"github.com/ledgerlabs/powchain/foundation/blockchain/canonical"
)

// Block represents a group of transactions batched together and sealed with
// a proof that links it to its predecessor.
type Block struct {
	Index        uint64  `json:"index"`         // Position in the chain, starting at 1 for genesis.
	TimeStamp    float64 `json:"timestamp"`     // Seconds since epoch when the block was sealed.
	Transactions []Tx    `json:"transactions"`  // Transactions moved out of the pending pool.
	Proof        uint64  `json:"proof"`         // Value that solves the puzzle against the previous proof.
	PrevHash     string  `json:"previous_hash"` // Hash of the previous block in the chain.
}

// NewBlock constructs a block stamped with the current time. A nil set of
// transactions is stored as an empty list so the block hashes the same as
// one decoded from the wire.
func NewBlock(index uint64, trans []Tx, proof uint64, prevHash string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		TimeStamp:    Now(),
		Transactions: trans,
		Proof:        proof,
		PrevHash:     prevHash,
	}
}

// Now returns the current time as fractional seconds since the epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Hash returns the unique hash for the Block. The whole block, transactions
// included, is serialized canonically before hashing.
func (b Block) Hash() string {
	return canonical.Hash(b)
}

// Clone returns a copy of the block that doesn't share the transaction list.
// A nil list stays nil since it hashes differently from an empty one.
func (b Block) Clone() Block {
	if b.Transactions == nil {
		return b
	}

	trans := make([]Tx, len(b.Transactions))
	copy(trans, b.Transactions)
	b.Transactions = trans

	return b
}

// ValidateBlock checks the block can follow the specified previous block:
// the previous hash must match and the proof must solve the puzzle against
// the previous proof.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Index)

	if hash := previousBlock.Hash(); b.PrevHash != hash {
		return fmt.Errorf("%w: block %d: parent hash doesn't match, got %s, exp %s", ErrInvalidChain, b.Index, b.PrevHash, hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: proof solves the puzzle", b.Index)

	if !ValidProof(previousBlock.Proof, b.Proof) {
		return fmt.Errorf("%w: block %d: proof %d does not solve puzzle for previous proof %d", ErrInvalidChain, b.Index, b.Proof, previousBlock.Proof)
	}

	return nil
}
