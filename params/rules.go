// Package params defines the per-source-chain rule sets for the bootstrap
// derivation pipeline.
//
// This package provides:
//   - Chain identification constants (client chain indexes, staker suffixes)
//   - Stake eligibility parameters (minimum confirmations, minimum amount)
//   - Genesis parameters (validator cap, reference price and its scale)
//   - Protocol constants (validator address encoding, ledger memo marker)
//
// The Rules type is the central configuration structure that defines all
// consensus-critical parameters of one derivation run. Two operators running
// with identical Rules against identical chain history must produce
// byte-identical genesis fragments, so everything influencing the output
// lives here, not in ad hoc flags.
package params

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/rony4d/go-stakegen/inter"
)

// Client chain indexes distinguish source chains inside staker and asset
// identities. They are appended, 0x-hex encoded, to every staker ID and
// asset ID so that deposits originating on different chains never collide.
const (
	// BitcoinChainIndex identifies the Bitcoin client chain (0x65 = 101).
	BitcoinChainIndex uint64 = 0x65

	// XRPLChainIndex identifies the XRP Ledger client chain (0x66 = 102).
	XRPLChainIndex uint64 = 0x66
)

const (
	// ValidatorHRP is the human-readable prefix of destination-chain
	// validator operator addresses.
	ValidatorHRP = "im"

	// ValidatorAddrLen is the exact length of a bech32 operator address
	// with a 20-byte payload under ValidatorHRP: 2 (hrp) + 1 (separator)
	// + 32 (payload chars) + 6 (checksum).
	ValidatorAddrLen = 41

	// LedgerStakeMemoType is the fixed memo type marker that tags a stake
	// payload on ledger-style chains. Memos with any other type are not
	// stake payloads and are ignored by the readers.
	LedgerStakeMemoType = "stakegen"

	// NativeAssetAddress is the virtual token address representing a source
	// chain's native asset. The chain suffix disambiguates assets across
	// chains, so both Bitcoin and XRPL use the same sentinel.
	NativeAssetAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

	// PriceDecimals is the fixed number of decimals carried by every
	// reference price in Rules. Voting power is computed as
	// floor(amount * price / 10^(AssetDecimals+PriceDecimals)), i.e. the
	// integer reference-currency value of the stake, with no further
	// scaling constant.
	PriceDecimals = 8
)

// Rules describes the complete configuration for deriving one source
// chain's genesis fragment. This is the main type threaded through the
// pipeline to access derivation parameters.
//
// Note: when implementing Copy(), ensure all non-copiable fields
// (*big.Int) are properly deep-copied to avoid shared state.
type Rules struct {
	// Chain identification
	Name       string          // human-readable rule set name (e.g. "bitcoin-mainnet")
	Kind       inter.ChainKind // protocol variant, selects decoder and tx-type check
	ChainIndex uint64          // client chain index (BitcoinChainIndex, ...)

	// Collection
	CollectionAddress string // source-chain address receiving bootstrap stakes
	ExpectedTxType    string // transaction type accepted by the validator

	// Eligibility
	MinConfirmations uint64   // confirmation depth required for finality
	MinStakeAmount   *big.Int // minimum accepted amount, smallest unit

	// Genesis
	MaxValidators  int      // cap on the initial validator set
	AssetDecimals  uint8    // decimals of the chain's smallest unit
	ReferencePrice *big.Int // asset price in reference currency, PriceDecimals decimals
}

// ChainSuffix returns the 0x-hex chain index appended to staker and asset
// identities (e.g. "0x65").
func (r Rules) ChainSuffix() string {
	return fmt.Sprintf("0x%x", r.ChainIndex)
}

// AssetID returns the fragment-level asset identifier for the chain's
// native asset: the virtual token address joined with the chain suffix.
func (r Rules) AssetID() string {
	return NativeAssetAddress + "_" + r.ChainSuffix()
}

// Validate reports the first structurally invalid parameter, if any.
// The launcher refuses to start a run with invalid rules: a silently wrong
// parameter here would change consensus-critical output.
func (r Rules) Validate() error {
	switch {
	case r.Kind != inter.KindUTXO && r.Kind != inter.KindLedger:
		return fmt.Errorf("rules %q: unknown chain kind %d", r.Name, r.Kind)
	case r.CollectionAddress == "":
		return fmt.Errorf("rules %q: empty collection address", r.Name)
	case r.ExpectedTxType == "":
		return fmt.Errorf("rules %q: empty expected tx type", r.Name)
	case r.MinConfirmations == 0:
		return fmt.Errorf("rules %q: min confirmations must be >= 1", r.Name)
	case r.MinStakeAmount == nil || r.MinStakeAmount.Sign() <= 0:
		return fmt.Errorf("rules %q: min stake amount must be positive", r.Name)
	case r.MaxValidators <= 0:
		return fmt.Errorf("rules %q: max validators must be positive", r.Name)
	case r.ReferencePrice == nil || r.ReferencePrice.Sign() <= 0:
		return fmt.Errorf("rules %q: reference price must be positive", r.Name)
	}
	return nil
}

// BitcoinMainnetRules returns the production rule set for deriving the
// Bitcoin fragment. The collection address and price are placeholders until
// the launch parameters are announced; everything else is final.
func BitcoinMainnetRules() Rules {
	return Rules{
		Name:              "bitcoin-mainnet",
		Kind:              inter.KindUTXO,
		ChainIndex:        BitcoinChainIndex,
		CollectionAddress: "bc1qv8n0k6l2yqtzp39ceqt0mejgg95y05kuq8hdc3",
		ExpectedTxType:    "transfer",
		MinConfirmations:  6,                      // standard Bitcoin finality proxy
		MinStakeAmount:    big.NewInt(100_000),    // 0.001 BTC in satoshis
		MaxValidators:     100,
		AssetDecimals:     8,
		ReferencePrice:    big.NewInt(6_000_000_000_000), // 60,000.00000000 per BTC
	}
}

// BitcoinTestnetRules returns the Bitcoin testnet rule set. Confirmation
// depth and the minimum stake are relaxed so test stakes qualify quickly.
func BitcoinTestnetRules() Rules {
	cfg := BitcoinMainnetRules()
	cfg.Name = "bitcoin-testnet"
	cfg.CollectionAddress = "tb1qv8n0k6l2yqtzp39ceqt0mejgg95y05ku798hxq"
	cfg.MinConfirmations = 1
	cfg.MinStakeAmount = big.NewInt(10_000)
	return cfg
}

// XRPLMainnetRules returns the production rule set for deriving the XRP
// Ledger fragment. A validated XRPL ledger is final, so a single
// confirmation suffices.
func XRPLMainnetRules() Rules {
	return Rules{
		Name:              "xrpl-mainnet",
		Kind:              inter.KindLedger,
		ChainIndex:        XRPLChainIndex,
		CollectionAddress: "rLWQskMM8EoPxaLsmuQxE5rYeP2uiMFCFy",
		ExpectedTxType:    "payment",
		MinConfirmations:  1,
		MinStakeAmount:    big.NewInt(1_000_000), // 1 XRP in drops
		MaxValidators:     100,
		AssetDecimals:     6,
		ReferencePrice:    big.NewInt(50_000_000), // 0.50000000 per XRP
	}
}

// FakeNetRules returns an accelerated rule set for local testing:
// single-confirmation finality, a 1-unit minimum stake, a small validator
// cap, and a unit price so power equals the staked amount divided by the
// smallest-unit scale.
func FakeNetRules(kind inter.ChainKind) Rules {
	cfg := BitcoinMainnetRules()
	cfg.Name = "fakenet"
	cfg.Kind = kind
	if kind == inter.KindLedger {
		cfg.ChainIndex = XRPLChainIndex
		cfg.ExpectedTxType = "payment"
		cfg.AssetDecimals = 6
	}
	cfg.CollectionAddress = "fake-collection"
	cfg.MinConfirmations = 1
	cfg.MinStakeAmount = big.NewInt(1)
	cfg.MaxValidators = 10
	cfg.ReferencePrice = new(big.Int).Exp(big.NewInt(10), big.NewInt(PriceDecimals), nil)
	return cfg
}

// Copy creates a deep copy of Rules. Rules contains *big.Int fields that a
// shallow copy would share, leading to unintended mutations.
func (r Rules) Copy() Rules {
	cp := r
	if r.MinStakeAmount != nil {
		cp.MinStakeAmount = new(big.Int).Set(r.MinStakeAmount)
	}
	if r.ReferencePrice != nil {
		cp.ReferencePrice = new(big.Int).Set(r.ReferencePrice)
	}
	return cp
}

// String returns a JSON representation of Rules for debugging and logging.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
