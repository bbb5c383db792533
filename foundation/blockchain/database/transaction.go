package database

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ledgerlabs/powchain/foundation/blockchain/canonical"
)

// ErrInvalidAmount is returned when an amount isn't a JSON number.
var ErrInvalidAmount = errors.New("amount must be a number")

// Amount is the value moved by a transaction. It remembers whether it was
// written as an integer or as a real so it hashes the same way the client
// that submitted it would: 10 stays 10 and 10.0 stays 10.0.
type Amount struct {
	value float64
	real  bool
}

// NewAmount constructs an amount from a float. Integral values are treated
// as integers.
func NewAmount(v float64) Amount {
	return Amount{
		value: v,
		real:  math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v),
	}
}

// ParseAmount parses a JSON number token. A token with a fraction or an
// exponent is a real, anything else is an integer.
func ParseAmount(token string) (Amount, error) {
	if !isNumber(token) {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, token)
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, token)
	}

	isReal := strings.ContainsAny(token, ".eE")
	if !isReal && v == 0 {
		v = 0
	}

	return Amount{
		value: v,
		real:  isReal,
	}, nil
}

// isNumber reports whether the token only uses the characters of a JSON
// number and starts like one.
func isNumber(token string) bool {
	if token == "" {
		return false
	}

	first := token[0]
	if first != '-' && (first < '0' || first > '9') {
		return false
	}

	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && !strings.ContainsRune("-+.eE", rune(c)) {
			return false
		}
	}

	return true
}

// Float64 returns the numeric value of the amount.
func (a Amount) Float64() float64 {
	return a.value
}

// String implements the fmt.Stringer interface.
func (a Amount) String() string {
	return string(a.render())
}

// MarshalCanonical implements the canonical.Marshaler interface.
func (a Amount) MarshalCanonical() ([]byte, error) {
	return a.render(), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (a Amount) MarshalJSON() ([]byte, error) {
	if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, a.value)
	}

	return a.render(), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Amount) UnmarshalJSON(data []byte) error {
	token := string(data)
	if token == "null" {
		return nil
	}

	amt, err := ParseAmount(token)
	if err != nil {
		return err
	}
	*a = amt

	return nil
}

func (a Amount) render() []byte {
	if a.real {
		return []byte(canonical.FormatFloat(a.value))
	}

	return []byte(strconv.FormatFloat(a.value, 'f', -1, 64))
}

// =============================================================================

// Tx is the transactional information between two parties. There is no
// identity beyond the fields and no balance tracking.
type Tx struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    Amount `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    NewAmount(amount),
	}
}

// NewRewardTx constructs the transaction that credits a miner for sealing
// a block. The sender is the well known mint address.
func NewRewardTx(rewardSender string, beneficiary string, reward float64) Tx {
	return NewTx(rewardSender, beneficiary, reward)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Recipient, tx.Amount)
}
