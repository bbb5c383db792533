package public

import (
	"github.com/ledgerlabs/powchain/business/sys/validate"
	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
)

// newTx is what a client posts to submit a transaction. The fields are
// pointers so a missing field can be told apart from a zero value.
type newTx struct {
	Sender    *string          `json:"sender" validate:"required"`
	Recipient *string          `json:"recipient" validate:"required"`
	Amount    *database.Amount `json:"amount" validate:"required"`
}

// Validate checks the transaction carries every field.
func (ntx newTx) Validate() error {
	return validate.Check(ntx)
}

// toTx converts a validated request into a ledger transaction.
func (ntx newTx) toTx() database.Tx {
	return database.Tx{
		Sender:    *ntx.Sender,
		Recipient: *ntx.Recipient,
		Amount:    *ntx.Amount,
	}
}

// =============================================================================

type message struct {
	Message string `json:"message"`
}

type minedBlock struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PrevHash     string        `json:"previous_hash"`
}
