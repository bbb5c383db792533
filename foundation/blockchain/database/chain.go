package database

import "errors"

// ErrInvalidChain is returned when a chain breaks the hash link or proof
// rules between two adjacent blocks.
var ErrInvalidChain = errors.New("invalid chain")

// Chain is an ordered sequence of blocks starting with genesis.
type Chain []Block

// ValidChain reports whether every adjacent pair of blocks in the chain is
// properly linked. Empty and genesis only chains are trivially valid.
func ValidChain(chain Chain) bool {
	return ValidateChain(chain, func(string, ...any) {}) == nil
}

// ValidateChain walks the chain from the second block onward and returns
// the first violation found. The genesis block is trusted, not checked.
func ValidateChain(chain Chain, evHandler func(v string, args ...any)) error {
	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1], evHandler); err != nil {
			return err
		}
	}

	return nil
}

// Last returns the last block in the chain. The zero block is returned for
// an empty chain.
func (c Chain) Last() Block {
	if len(c) == 0 {
		return Block{}
	}

	return c[len(c)-1]
}

// Clone returns a deep copy of the chain.
func (c Chain) Clone() Chain {
	if c == nil {
		return nil
	}

	out := make(Chain, len(c))
	for i, block := range c {
		out[i] = block.Clone()
	}

	return out
}
