package inter

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func addrFromByte(b byte) common.Address {
	return common.BytesToAddress(bytes.Repeat([]byte{b}, common.AddressLength))
}

func TestAggregatesAdd(t *testing.T) {
	require := require.New(t)
	agg := NewAggregates()

	agg.Add("staker-1", "asset-x", "op-a", big.NewInt(10))
	agg.Add("staker-1", "asset-x", "op-a", big.NewInt(5))
	agg.Add("staker-1", "asset-y", "op-a", big.NewInt(2))
	agg.Add("staker-2", "asset-x", "op-b", big.NewInt(100))

	require.Equal([]string{"staker-1", "staker-2"}, agg.Stakers())

	assets, amounts := agg.DepositsOf("staker-1")
	require.Equal([]string{"asset-x", "asset-y"}, assets)
	require.Equal(big.NewInt(15), amounts[0])
	require.Equal(big.NewInt(2), amounts[1])

	validators := agg.Validators()
	require.Len(validators, 2)
	require.Equal("op-a", validators[0].Operator)
	require.Equal(big.NewInt(17), validators[0].Total)
	require.Equal([]string{"staker-1"}, validators[0].SortedStakers())

	keys, delAmounts := agg.Delegations()
	require.Equal([]DelegationKey{
		{Staker: "staker-1", Asset: "asset-x", Validator: "op-a"},
		{Staker: "staker-1", Asset: "asset-y", Validator: "op-a"},
		{Staker: "staker-2", Asset: "asset-x", Validator: "op-b"},
	}, keys)
	require.Equal(big.NewInt(15), delAmounts[0])

	require.Equal(big.NewInt(117), agg.TotalDeposited())
	require.Equal(big.NewInt(117), agg.TotalDelegated())
}

func TestAggregatesAddDoesNotAliasInput(t *testing.T) {
	require := require.New(t)
	agg := NewAggregates()

	amount := big.NewInt(10)
	agg.Add("staker-1", "asset-x", "op-a", amount)
	amount.SetInt64(999)

	_, amounts := agg.DepositsOf("staker-1")
	require.Equal(big.NewInt(10), amounts[0])
}

func TestDepositsOfReturnsCopies(t *testing.T) {
	require := require.New(t)
	agg := NewAggregates()
	agg.Add("staker-1", "asset-x", "op-a", big.NewInt(10))

	_, amounts := agg.DepositsOf("staker-1")
	amounts[0].SetInt64(0)

	_, again := agg.DepositsOf("staker-1")
	require.Equal(big.NewInt(10), again[0])
}

func TestValidatorOfMissing(t *testing.T) {
	require := require.New(t)
	agg := NewAggregates()
	_, ok := agg.ValidatorOf("nobody")
	require.False(ok)
}
