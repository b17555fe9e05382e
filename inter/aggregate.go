package inter

import (
	"math/big"
	"sort"
)

// ValidatorAggregate accumulates the state of one validator across all
// accepted stakes that delegate to it: the running total and the set of
// staker identities.
type ValidatorAggregate struct {
	// Operator is the validator's bech32 operator address.
	Operator string

	// Total is the accumulated stake amount, smallest source-chain unit.
	Total *big.Int

	// Stakers is the deduplicated set of staker identities delegating to
	// this validator.
	Stakers map[string]struct{}
}

// SortedStakers returns the staker set as a key-sorted slice, for
// deterministic output.
func (v *ValidatorAggregate) SortedStakers() []string {
	out := make([]string, 0, len(v.Stakers))
	for s := range v.Stakers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// DelegationKey identifies one delegation-state entry: a staker delegating
// one asset to one validator.
type DelegationKey struct {
	Staker    string
	Asset     string
	Validator string
}

// Aggregates holds the purely additive result of folding accepted stakes:
// per-(staker, asset) deposits, per-validator totals and staker sets, and
// per-(staker, asset, validator) delegation amounts.
//
// All amounts are *big.Int; no stage of aggregation goes through
// limited-precision floats. Constructed once per run, read by the genesis
// builder, never mutated afterwards.
type Aggregates struct {
	deposits    map[string]map[string]*big.Int // staker -> asset -> amount
	validators  map[string]*ValidatorAggregate // operator -> aggregate
	delegations map[DelegationKey]*big.Int
}

// NewAggregates returns an empty accumulator.
func NewAggregates() *Aggregates {
	return &Aggregates{
		deposits:    make(map[string]map[string]*big.Int),
		validators:  make(map[string]*ValidatorAggregate),
		delegations: make(map[DelegationKey]*big.Int),
	}
}

// Add folds one accepted stake into the aggregates: the amount is added to
// the staker's deposit for the asset, to the validator's total, and to the
// (staker, asset, validator) delegation entry; the staker is recorded in
// the validator's staker set.
func (a *Aggregates) Add(stakerID, assetID, operator string, amount *big.Int) {
	byAsset, ok := a.deposits[stakerID]
	if !ok {
		byAsset = make(map[string]*big.Int)
		a.deposits[stakerID] = byAsset
	}
	if cur, ok := byAsset[assetID]; ok {
		cur.Add(cur, amount)
	} else {
		byAsset[assetID] = new(big.Int).Set(amount)
	}

	agg, ok := a.validators[operator]
	if !ok {
		agg = &ValidatorAggregate{
			Operator: operator,
			Total:    new(big.Int),
			Stakers:  make(map[string]struct{}),
		}
		a.validators[operator] = agg
	}
	agg.Total.Add(agg.Total, amount)
	agg.Stakers[stakerID] = struct{}{}

	key := DelegationKey{Staker: stakerID, Asset: assetID, Validator: operator}
	if cur, ok := a.delegations[key]; ok {
		cur.Add(cur, amount)
	} else {
		a.delegations[key] = new(big.Int).Set(amount)
	}
}

// Stakers returns the staker identities in ascending order.
func (a *Aggregates) Stakers() []string {
	out := make([]string, 0, len(a.deposits))
	for s := range a.deposits {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// DepositsOf returns a staker's per-asset deposit amounts, asset IDs in
// ascending order. The returned amounts are copies.
func (a *Aggregates) DepositsOf(stakerID string) (assets []string, amounts []*big.Int) {
	byAsset := a.deposits[stakerID]
	assets = make([]string, 0, len(byAsset))
	for asset := range byAsset {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	amounts = make([]*big.Int, len(assets))
	for i, asset := range assets {
		amounts[i] = new(big.Int).Set(byAsset[asset])
	}
	return assets, amounts
}

// Validators returns the validator aggregates, operators in ascending
// order.
func (a *Aggregates) Validators() []*ValidatorAggregate {
	ops := make([]string, 0, len(a.validators))
	for op := range a.validators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	out := make([]*ValidatorAggregate, len(ops))
	for i, op := range ops {
		out[i] = a.validators[op]
	}
	return out
}

// ValidatorOf returns the aggregate for one operator, if any stake
// delegates to it.
func (a *Aggregates) ValidatorOf(operator string) (*ValidatorAggregate, bool) {
	v, ok := a.validators[operator]
	return v, ok
}

// Delegations returns all delegation entries with their amounts, keys in
// ascending (staker, asset, validator) order.
func (a *Aggregates) Delegations() (keys []DelegationKey, amounts []*big.Int) {
	keys = make([]DelegationKey, 0, len(a.delegations))
	for k := range a.delegations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Staker != keys[j].Staker {
			return keys[i].Staker < keys[j].Staker
		}
		if keys[i].Asset != keys[j].Asset {
			return keys[i].Asset < keys[j].Asset
		}
		return keys[i].Validator < keys[j].Validator
	})
	amounts = make([]*big.Int, len(keys))
	for i, k := range keys {
		amounts[i] = new(big.Int).Set(a.delegations[k])
	}
	return keys, amounts
}

// TotalDeposited sums every deposit amount. Used by the pipeline's
// conservation check: this sum must equal the sum of validator totals.
func (a *Aggregates) TotalDeposited() *big.Int {
	sum := new(big.Int)
	for _, byAsset := range a.deposits {
		for _, amt := range byAsset {
			sum.Add(sum, amt)
		}
	}
	return sum
}

// TotalDelegated sums every validator's total.
func (a *Aggregates) TotalDelegated() *big.Int {
	sum := new(big.Int)
	for _, agg := range a.validators {
		sum.Add(sum, agg.Total)
	}
	return sum
}
