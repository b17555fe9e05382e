// This file maps the CLI context to the launcher config: defaults, then
// the named preset, then individual flag overrides, in that order.

package launcher

import (
	"fmt"
	"math/big"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-stakegen/integration"
	"github.com/rony4d/go-stakegen/params"
)

// Config aggregates everything one derivation run needs.
type Config struct {
	Rules            params.Rules // consensus-critical parameters
	IndexerURL       string       // chain reader endpoint
	RegistryRPC      string       // validator registry JSON-RPC endpoint
	RegistryContract string       // validator registry contract address
	Output           OutputConfig
	Logging          LoggingConfig
}

type OutputConfig struct {
	Path   string
	DryRun bool
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

// MakeAllConfigs merges defaults, the selected preset, and CLI flag
// overrides into a single config. Overriding a consensus-critical value is
// allowed but always explicit: the effective rules are logged before the
// run starts.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	defaults := DefaultConfig()

	name := defaults.Preset
	if ctx.IsSet("preset") {
		name = ctx.String("preset")
	}
	preset, err := integration.GetPresetByName(name)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Rules:            preset.Rules,
		IndexerURL:       preset.IndexerURL,
		RegistryRPC:      preset.RegistryRPC,
		RegistryContract: preset.RegistryContract,
		Output: OutputConfig{
			Path:   defaults.Output.Path,
			DryRun: defaults.Output.DryRun,
		},
		Logging: LoggingConfig{
			Verbosity: defaults.Logging.Verbosity,
			Format:    defaults.Logging.Format,
			Color:     defaults.Logging.Color,
			SentryDSN: defaults.Logging.SentryDSN,
		},
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Rules.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("collection") {
		cfg.Rules.CollectionAddress = ctx.String("collection")
	}
	if ctx.IsSet("minconf") {
		cfg.Rules.MinConfirmations = ctx.Uint64("minconf")
	}
	if ctx.IsSet("minstake") {
		amount, err := parseAmountFlag(ctx.String("minstake"), "minstake")
		if err != nil {
			return err
		}
		cfg.Rules.MinStakeAmount = amount
	}
	if ctx.IsSet("maxvalidators") {
		cfg.Rules.MaxValidators = ctx.Int("maxvalidators")
	}
	if ctx.IsSet("price") {
		price, err := parseAmountFlag(ctx.String("price"), "price")
		if err != nil {
			return err
		}
		cfg.Rules.ReferencePrice = price
	}

	if ctx.IsSet("indexer.url") {
		cfg.IndexerURL = ctx.String("indexer.url")
	}
	if ctx.IsSet("registry.rpc") {
		cfg.RegistryRPC = ctx.String("registry.rpc")
	}
	if ctx.IsSet("registry.contract") {
		cfg.RegistryContract = ctx.String("registry.contract")
	}

	if ctx.IsSet("output") {
		cfg.Output.Path = ctx.String("output")
	}
	if ctx.Bool("dryrun") {
		cfg.Output.DryRun = true
	}

	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.String("sentry.dsn")
	}
	return nil
}

// parseAmountFlag parses a positive decimal big-integer flag value.
func parseAmountFlag(raw, flag string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() <= 0 {
		return nil, fmt.Errorf("flag --%s: %q is not a positive decimal integer", flag, raw)
	}
	return v, nil
}
