// Package inter defines the core data structures shared by every stage of
// the bootstrap-stake derivation pipeline: chain-neutral source transactions,
// validated stakes, and the arbitrary-precision amount type used for all
// value and voting-power arithmetic.
//
// Key concepts:
//   - SourceTx: one confirmed transaction retrieved from a source chain,
//     normalized so the validator never inspects chain-specific shapes
//   - BootstrapStake: a stake that passed the full eligibility rule set
//   - Amount: big.Int-backed quantity, serialized as a decimal string
//
// Everything in this package is a plain value type; nothing here performs
// I/O or holds global state.
package inter

import (
	"errors"
	"fmt"
	"math/big"
)

// Amount is an arbitrary-precision, non-negative quantity of the source
// chain's smallest unit (satoshi, drop) or of derived voting power.
//
// All amount arithmetic in the pipeline goes through *big.Int so that no
// stage accumulates value through limited-precision floats or numeric
// strings. Amount only exists at serialization boundaries: it marshals to a
// decimal JSON string, because genesis amounts routinely exceed the range
// that JSON consumers parse losslessly as numbers.
type Amount struct {
	v big.Int
}

// NewAmount returns an Amount holding the given non-negative value.
func NewAmount(v int64) *Amount {
	a := new(Amount)
	a.v.SetInt64(v)
	return a
}

// AmountFromBig copies b into a fresh Amount. The caller keeps ownership
// of b; later mutations of b do not affect the returned Amount.
func AmountFromBig(b *big.Int) *Amount {
	a := new(Amount)
	a.v.Set(b)
	return a
}

// AmountFromString parses a base-10 string into an Amount.
func AmountFromString(s string) (*Amount, error) {
	a := new(Amount)
	if _, ok := a.v.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", s)
	}
	return a, nil
}

// Big returns a copy of the underlying value.
func (a *Amount) Big() *big.Int {
	return new(big.Int).Set(&a.v)
}

// String returns the base-10 representation.
func (a *Amount) String() string {
	return a.v.String()
}

// Sign reports the sign of the amount, mirroring big.Int.Sign.
func (a *Amount) Sign() int {
	return a.v.Sign()
}

// Cmp compares a and b, mirroring big.Int.Cmp.
func (a *Amount) Cmp(b *Amount) int {
	return a.v.Cmp(&b.v)
}

// MarshalText implements encoding.TextMarshaler, so Amounts embedded in
// genesis structures serialize as decimal JSON strings.
func (a *Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		return errors.New("empty amount")
	}
	if _, ok := a.v.SetString(string(input), 10); !ok {
		return fmt.Errorf("invalid decimal amount %q", string(input))
	}
	return nil
}

// Timestamp is a unix time in seconds, as reported by the source chain for
// the block/ledger containing a transaction.
type Timestamp uint64
