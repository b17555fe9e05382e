package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-stakegen/inter"
)

func TestGetPresetByName(t *testing.T) {
	require := require.New(t)

	for _, name := range []string{"bitcoin-mainnet", "bitcoin-testnet", "xrpl-mainnet", "fakenet"} {
		preset, err := GetPresetByName(name)
		require.NoError(err, name)
		require.NoError(preset.Rules.Validate(), name)
		require.NotEmpty(preset.IndexerURL, name)
		require.NotEmpty(preset.RegistryRPC, name)
		require.Equal(DefaultRegistryContract, preset.RegistryContract, name)
	}

	_, err := GetPresetByName("dogecoin-mainnet")
	require.Error(err)
}

func TestPresetKinds(t *testing.T) {
	require := require.New(t)

	btc, err := GetPresetByName("bitcoin-mainnet")
	require.NoError(err)
	require.Equal(inter.KindUTXO, btc.Rules.Kind)

	xrp, err := GetPresetByName("xrpl-mainnet")
	require.NoError(err)
	require.Equal(inter.KindLedger, xrp.Rules.Kind)
	require.NotEqual(btc.Rules.AssetID(), xrp.Rules.AssetID())
}
