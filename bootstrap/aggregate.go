package bootstrap

import (
	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/params"
)

// AggregateStakes folds an ordered list of accepted stakes into the run's
// aggregates. Purely additive: for each stake the amount is credited to the
// StakerDeposit keyed (staker identity, asset), to the ValidatorAggregate
// keyed by operator, and to the delegation entry keyed
// (staker, asset, validator).
//
// The staker identity is derived from the stake's bound destination address
// and the chain's fixed suffix, so identical depositors always aggregate
// into the same entry regardless of how many transactions they sent.
func AggregateStakes(stakes []inter.BootstrapStake, rules params.Rules) *inter.Aggregates {
	agg := inter.NewAggregates()
	assetID := rules.AssetID()
	suffix := rules.ChainSuffix()
	for i := range stakes {
		s := &stakes[i]
		agg.Add(inter.StakerID(s.Dest, suffix), assetID, s.Validator, s.Amount)
	}
	return agg
}
