package genesis

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/params"
)

// Build converts one run's aggregates into the genesis fragment.
//
// rankKeys maps each operator address to its ranking public-key string
// (consensus key when the registry has one, operator address otherwise);
// every operator present in the aggregates must have an entry.
//
// Voting power is the integer reference-currency value of the validator's
// total stake:
//
//	power = floor(total * ReferencePrice / 10^(AssetDecimals+PriceDecimals))
//
// with no further scaling constant. The validator set is ranked by
// descending power, ties broken by ascending public-key string, then capped
// at MaxValidators; the reported total power sums only the retained subset.
func Build(agg *inter.Aggregates, rules params.Rules, rankKeys map[string]string, generatedAt time.Time) (*Fragment, error) {
	assetID := rules.AssetID()
	zero := inter.NewAmount(0)

	f := &Fragment{
		GeneratedAt: generatedAt.UTC().Format(GeneratedAtLayout),
		Chain:       rules.Name,
		Prices: []PriceEntry{{
			AssetID:  assetID,
			Price:    inter.AmountFromBig(rules.ReferencePrice),
			Decimals: params.PriceDecimals,
		}},
	}

	// Deposits: one entry per staker, assets ascending, stakers ascending.
	// All bootstrap stake is delegated, none liquid.
	for _, staker := range agg.Stakers() {
		assets, amounts := agg.DepositsOf(staker)
		entry := DepositEntry{StakerID: staker}
		for i, asset := range assets {
			entry.Deposits = append(entry.Deposits, AssetDeposit{
				AssetID: asset,
				Info: DepositInfo{
					TotalDepositAmount:        inter.AmountFromBig(amounts[i]),
					WithdrawableAmount:        zero,
					PendingUndelegationAmount: zero,
				},
			})
		}
		f.Deposits = append(f.Deposits, entry)
	}

	// Per-validator asset state and the staker-by-operator index, operators
	// ascending. Total share mirrors total amount; operators hold no
	// self-stake at bootstrap.
	for _, v := range agg.Validators() {
		f.OperatorAssets = append(f.OperatorAssets, OperatorAssetEntry{
			Operator:       v.Operator,
			AssetID:        assetID,
			TotalAmount:    inter.AmountFromBig(v.Total),
			TotalShare:     inter.AmountFromBig(v.Total),
			OperatorAmount: zero,
			OperatorShare:  zero,
		})
		f.StakersByOperator = append(f.StakersByOperator, OperatorStakersEntry{
			Key:     v.Operator + "/" + assetID,
			Stakers: v.SortedStakers(),
		})
	}

	// Delegation states, key ascending. Aggregation already summed repeated
	// (staker, asset, validator) triples into single amounts.
	keys, amounts := agg.Delegations()
	for i, k := range keys {
		f.DelegationStates = append(f.DelegationStates, DelegationStateEntry{
			Key:                    k.Staker + "/" + k.Asset + "/" + k.Validator,
			UndelegatableShare:     inter.AmountFromBig(amounts[i]),
			WaitUndelegationAmount: zero,
		})
	}

	// Ranked validator set.
	validators, totalPower, err := rankValidators(agg, rules, rankKeys)
	if err != nil {
		return nil, err
	}
	f.Validators = validators
	f.TotalPower = inter.AmountFromBig(totalPower)

	return f, nil
}

// rankValidators computes every qualifying validator's power, orders them
// by descending power with the public-key tie-break, truncates to the
// configured cap, and recomputes the power sum over the retained subset
// only.
func rankValidators(agg *inter.Aggregates, rules params.Rules, rankKeys map[string]string) ([]Validator, *big.Int, error) {
	// 10^(AssetDecimals + PriceDecimals), the fixed conversion scale.
	scale := new(big.Int).Exp(big.NewInt(10),
		big.NewInt(int64(rules.AssetDecimals)+int64(params.PriceDecimals)), nil)

	ranked := make([]Validator, 0)
	for _, v := range agg.Validators() {
		key, ok := rankKeys[v.Operator]
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("no ranking key for operator %s", v.Operator)
		}
		// floor division: big.Int.Div truncates toward zero, and all
		// operands are non-negative.
		power := new(big.Int).Mul(v.Total, rules.ReferencePrice)
		power.Div(power, scale)
		ranked = append(ranked, Validator{
			Operator:  v.Operator,
			PublicKey: key,
			Power:     inter.AmountFromBig(power),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Power.Cmp(ranked[j].Power); c != 0 {
			return c > 0 // descending power
		}
		return ranked[i].PublicKey < ranked[j].PublicKey // ascending key
	})

	if len(ranked) > rules.MaxValidators {
		ranked = ranked[:rules.MaxValidators]
	}

	total := new(big.Int)
	for i := range ranked {
		total.Add(total, ranked[i].Power.Big())
	}
	return ranked, total, nil
}
