package inter

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ChainKind tags the protocol variant of a source chain. The decoder and
// the validation rules are selected by this tag rather than by structural
// inspection of transaction shapes.
type ChainKind uint8

const (
	// KindUTXO is a Bitcoin-style chain: value moves through outputs, the
	// stake payload rides in an OP_RETURN data-carrier output.
	KindUTXO ChainKind = iota + 1

	// KindLedger is an XRP-style account/ledger chain: value moves through
	// payments, the stake payload rides in a tagged memo entry.
	KindLedger
)

// String returns the canonical name of the chain kind.
func (k ChainKind) String() string {
	switch k {
	case KindUTXO:
		return "utxo"
	case KindLedger:
		return "ledger"
	default:
		return "unknown"
	}
}

// Transfer is one value-bearing output (UTXO vout) or payment leg of a
// source transaction, already reduced to recipient + amount.
type Transfer struct {
	// Recipient is the address credited by this transfer, in the source
	// chain's native encoding.
	Recipient string

	// Amount is the transferred value in the chain's smallest unit
	// (satoshis, drops).
	Amount *big.Int
}

// Payload is one data-carrying field of a source transaction.
//
// For UTXO chains, Data holds the complete output script of a data-carrier
// output and Tag is empty. For ledger chains, Tag holds the decoded memo
// type and Data the decoded memo data. The protocol decoder is responsible
// for all further interpretation.
type Payload struct {
	Tag  string
	Data []byte
}

// SourceTx is a chain-neutral view of one confirmed transaction involving
// the collection address. Chain readers construct it; the validator and
// decoder consume it. Readers must include every data-carrying field and
// every transfer so the validator can enforce exact-count rules.
type SourceTx struct {
	// Hash is the source chain's transaction identifier (txid hex or
	// ledger tx hash), used for canonical tie-breaking and reporting.
	Hash string

	// Height is the block height / ledger index containing the tx.
	Height uint64

	// Index is the transaction's position within its block or ledger.
	// Readers that cannot recover the position report zero; the canonical
	// order then falls back to the Hash tie-break.
	Index uint32

	// Confirmed reports whether the chain considers the tx final
	// (confirmed in a block, or in a validated ledger with success result).
	Confirmed bool

	// Type is the source chain's transaction type, lower-cased
	// (e.g. "transfer", "payment"). Checked against the chain rules.
	Type string

	// Sender is the canonical source address of the depositor: the first
	// input's address on UTXO chains, the sending account on ledger chains.
	Sender string

	// Inputs lists every spending address of the transaction, used for the
	// self-transfer check.
	Inputs []string

	// Transfers lists the value-bearing outputs of the transaction.
	Transfers []Transfer

	// Payloads lists the data-carrying fields of the transaction.
	Payloads []Payload

	// Time is the block/ledger close time.
	Time Timestamp
}

// BootstrapStake is one stake transaction that passed the full eligibility
// rule set. It is constructed exactly once, after validation, and never
// mutated afterwards.
type BootstrapStake struct {
	TxID      string
	Height    uint64
	Index     uint32
	Source    string         // depositor's source-chain address
	Dest      common.Address // bound destination-chain identity
	Validator string         // bech32 operator address the stake delegates to
	Amount    *big.Int       // smallest source-chain unit
	Time      Timestamp
}

// StakerID derives the staker identity recorded in the genesis fragment:
// the lower-cased 0x-hex destination address joined with the chain's fixed
// suffix. The same depositor always yields the same identity because the
// binding registry pins the destination address.
func StakerID(dest common.Address, chainSuffix string) string {
	return strings.ToLower(dest.Hex()) + "_" + chainSuffix
}
