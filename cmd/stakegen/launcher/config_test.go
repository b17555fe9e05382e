package launcher

import (
	"flag"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-stakegen/flags"
	"github.com/rony4d/go-stakegen/inter"
)

// cliContext parses args against the full launcher flag set and returns the
// resulting context, mirroring what app.Run would hand the action.
func cliContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	app := flags.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	all := append(flags.CommonFlags(), flags.ChainFlags()...)
	all = append(all, flags.RegistryFlags()...)
	for _, f := range all {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(app, set, nil)
}

func TestMakeAllConfigsDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := MakeAllConfigs(cliContext(t))
	require.NoError(err)
	require.Equal("bitcoin-mainnet", cfg.Rules.Name)
	require.Equal(inter.KindUTXO, cfg.Rules.Kind)
	require.Equal("https://blockstream.info/api", cfg.IndexerURL)
	require.Equal("genesis-fragment.json", cfg.Output.Path)
	require.False(cfg.Output.DryRun)
	require.Equal(3, cfg.Logging.Verbosity)
	require.Equal("text", cfg.Logging.Format)
}

func TestMakeAllConfigsPresetSelection(t *testing.T) {
	require := require.New(t)

	cfg, err := MakeAllConfigs(cliContext(t, "--preset", "xrpl-mainnet"))
	require.NoError(err)
	require.Equal("xrpl-mainnet", cfg.Rules.Name)
	require.Equal(inter.KindLedger, cfg.Rules.Kind)
	require.Equal("https://s1.ripple.com:51234", cfg.IndexerURL)

	_, err = MakeAllConfigs(cliContext(t, "--preset", "nope"))
	require.Error(err)
}

func TestMakeAllConfigsOverrides(t *testing.T) {
	require := require.New(t)

	cfg, err := MakeAllConfigs(cliContext(t,
		"--collection", "bc1qcustom",
		"--minconf", "12",
		"--minstake", "250000",
		"--maxvalidators", "21",
		"--price", "9900000000000",
		"--indexer.url", "http://localhost:3000",
		"--registry.rpc", "http://localhost:8545",
		"--registry.contract", "0x0000000000000000000000000000000000000042",
		"--output", "out.json",
		"--dryrun",
		"--log.format", "json",
		"--log.verbosity", "5",
	))
	require.NoError(err)
	require.Equal("bc1qcustom", cfg.Rules.CollectionAddress)
	require.Equal(uint64(12), cfg.Rules.MinConfirmations)
	require.Equal(big.NewInt(250000), cfg.Rules.MinStakeAmount)
	require.Equal(21, cfg.Rules.MaxValidators)
	require.Equal(big.NewInt(9_900_000_000_000), cfg.Rules.ReferencePrice)
	require.Equal("http://localhost:3000", cfg.IndexerURL)
	require.Equal("http://localhost:8545", cfg.RegistryRPC)
	require.Equal("0x0000000000000000000000000000000000000042", cfg.RegistryContract)
	require.Equal("out.json", cfg.Output.Path)
	require.True(cfg.Output.DryRun)
	require.Equal("json", cfg.Logging.Format)
	require.Equal(5, cfg.Logging.Verbosity)
}

func TestMakeAllConfigsRejectsBadAmounts(t *testing.T) {
	require := require.New(t)

	_, err := MakeAllConfigs(cliContext(t, "--minstake", "0"))
	require.Error(err)
	_, err = MakeAllConfigs(cliContext(t, "--minstake", "1.5"))
	require.Error(err)
	_, err = MakeAllConfigs(cliContext(t, "--price", "-3"))
	require.Error(err)
}

func TestMakeAllConfigsRejectsInvalidRules(t *testing.T) {
	require := require.New(t)

	// Clearing a mandatory rule through a flag must not survive validation.
	_, err := MakeAllConfigs(cliContext(t, "--minconf", "0"))
	require.Error(err)
}
