package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/ledgerlabs/powchain/foundation/blockchain/genesis"
)

// ctxCheckInterval is how many attempts are made between checks of the
// context during a proof search.
const ctxCheckInterval = 4096

// ValidProof reports whether the proof solves the puzzle for the previous
// proof: the SHA-256 of the two decimal values concatenated must start with
// the genesis difficulty number of '0' hex characters.
func ValidProof(lastProof uint64, proof uint64) bool {
	guess := strconv.AppendUint(nil, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	hash := sha256.Sum256(guess)
	return isHashSolved(genesis.Difficulty, hex.EncodeToString(hash[:]))
}

// FindProof performs the work of mining. It searches sequentially from zero
// for the smallest proof that solves the puzzle for the previous proof. The
// search has no upper bound; it only stops early if the context is done.
func FindProof(ctx context.Context, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	ev("database: FindProof: MINING: started: lastProof[%d]", lastProof)
	defer ev("database: FindProof: MINING: completed")

	var attempts uint64
	for proof := uint64(0); ; proof++ {
		attempts++
		if attempts%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				ev("database: FindProof: MINING: CANCELLED: attempts[%d]", attempts)
				return 0, err
			}
		}
		if attempts%1_000_000 == 0 {
			ev("database: FindProof: MINING: attempts[%d]", attempts)
		}

		if ValidProof(lastProof, proof) {
			ev("database: FindProof: MINING: SOLVED: lastProof[%d]: proof[%d]: attempts[%d]", lastProof, proof, attempts)
			return proof, nil
		}
	}
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	const match = "0000000000000000"

	if len(hash) != 64 || difficulty > len(match) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
