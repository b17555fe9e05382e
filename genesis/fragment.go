// Package genesis converts the aggregates of one derivation run into the
// destination chain's genesis fragment. The fragment is the portion of the
// new chain's initial state attributable to one source chain's validated
// bootstrap stakes.
//
// Key concepts:
//   - Fragment: deposits, per-validator asset state, delegation states,
//     staker-by-operator index, the ranked validator set, and the price
//     snapshot used for voting power
//   - Determinism: two runs over identical inputs must emit byte-identical
//     fragments (generated_at excepted), because independent operators
//     compare fragment hashes before launch
//
// All set-like arrays are sorted by their key string ascending, so the
// output never depends on Go map iteration order.
package genesis

import (
	"github.com/rony4d/go-stakegen/inter"
)

// GeneratedAtLayout is the time format of the Fragment's generation stamp.
const GeneratedAtLayout = "2006-01-02T15:04:05Z"

// DepositInfo carries one staker's position in one asset. At bootstrap all
// stake is considered delegated, so the withdrawable and
// pending-undelegation amounts are fixed at zero.
type DepositInfo struct {
	TotalDepositAmount        *inter.Amount `json:"total_deposit_amount"`
	WithdrawableAmount        *inter.Amount `json:"withdrawable_amount"`
	PendingUndelegationAmount *inter.Amount `json:"pending_undelegation_amount"`
}

// AssetDeposit pairs an asset identifier with its deposit info.
type AssetDeposit struct {
	AssetID string      `json:"asset_id"`
	Info    DepositInfo `json:"info"`
}

// DepositEntry lists one staker's deposits across assets, asset IDs
// ascending.
type DepositEntry struct {
	StakerID string         `json:"staker_id"`
	Deposits []AssetDeposit `json:"deposits"`
}

// OperatorAssetEntry is one validator's state in one asset. Validators have
// no self-stake at bootstrap, so the operator's own amount and share are
// fixed at zero while total share equals total amount.
type OperatorAssetEntry struct {
	Operator       string        `json:"operator"`
	AssetID        string        `json:"asset_id"`
	TotalAmount    *inter.Amount `json:"total_amount"`
	TotalShare     *inter.Amount `json:"total_share"`
	OperatorAmount *inter.Amount `json:"operator_amount"`
	OperatorShare  *inter.Amount `json:"operator_share"`
}

// DelegationStateEntry is one staker/asset/validator delegation. Multiple
// stakes targeting the same triple are summed into one entry.
type DelegationStateEntry struct {
	// Key is "stakerID/assetID/operator".
	Key                    string        `json:"key"`
	UndelegatableShare     *inter.Amount `json:"undelegatable_share"`
	WaitUndelegationAmount *inter.Amount `json:"wait_undelegation_amount"`
}

// OperatorStakersEntry indexes the stakers delegating to one validator in
// one asset.
type OperatorStakersEntry struct {
	// Key is "operator/assetID".
	Key     string   `json:"key"`
	Stakers []string `json:"stakers"`
}

// Validator is one entry of the ranked initial validator set.
type Validator struct {
	// Operator is the validator's bech32 operator address.
	Operator string `json:"operator"`

	// PublicKey is the ranking key: the registry's consensus key when one
	// is on file, otherwise the operator address. Ties in power are broken
	// by ascending lexicographic comparison of this string.
	PublicKey string `json:"public_key"`

	// Power is the reference-price-denominated voting power.
	Power *inter.Amount `json:"power"`
}

// PriceEntry is the price snapshot used for the voting-power conversion.
type PriceEntry struct {
	AssetID  string        `json:"asset_id"`
	Price    *inter.Amount `json:"price"`
	Decimals uint8         `json:"decimals"`
}

// Fragment is the complete genesis contribution of one source chain.
// Nothing in it is mutated after Build returns.
type Fragment struct {
	// GeneratedAt is the only field allowed to differ between two runs
	// over identical inputs.
	GeneratedAt string `json:"generated_at"`

	// Chain names the rule set that produced this fragment.
	Chain string `json:"chain"`

	Deposits          []DepositEntry         `json:"deposits"`
	OperatorAssets    []OperatorAssetEntry   `json:"operator_assets"`
	DelegationStates  []DelegationStateEntry `json:"delegation_states"`
	StakersByOperator []OperatorStakersEntry `json:"stakers_by_operator"`
	Validators        []Validator            `json:"validators"`
	TotalPower        *inter.Amount          `json:"total_power"`
	Prices            []PriceEntry           `json:"prices"`
}
