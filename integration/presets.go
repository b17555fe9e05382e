// Package integration provides named preset profiles for derivation runs.
// A preset bundles a rule set with the collaborator endpoints that usually
// go with it (public indexer, registry RPC), so operators can reproduce the
// official runs without assembling a dozen flags.
//
// Usage:
//
//	preset, err := integration.GetPresetByName("bitcoin-mainnet")
//
// Presets only seed the launcher config; every field can still be
// overridden by a CLI flag.
package integration

import (
	"fmt"

	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/params"
)

// DefaultRegistryContract is the registry contract address on the
// destination chain's EVM layer. Shared by all presets; the contract is
// deployed at a fixed address.
const DefaultRegistryContract = "0xd100a10000000000000000000000000000000000"

// PresetConfig captures the per-network values a derivation run needs
// beyond the bare Rules: where to find the indexer and the registry.
type PresetConfig struct {
	Rules            params.Rules // consensus-critical derivation parameters
	IndexerURL       string       // Esplora base URL or XRPL JSON-RPC URL
	RegistryRPC      string       // EVM JSON-RPC endpoint for registry lookups
	RegistryContract string       // registry contract address (0x-hex)
}

// BitcoinMainnetPreset returns the production Bitcoin derivation profile,
// pointed at a public Esplora instance. Operators verifying the official
// fragment should substitute their own indexer via --indexer.url.
func BitcoinMainnetPreset() PresetConfig {
	return PresetConfig{
		Rules:            params.BitcoinMainnetRules(),
		IndexerURL:       "https://blockstream.info/api",
		RegistryRPC:      "https://rpc.stakegen.example",
		RegistryContract: DefaultRegistryContract,
	}
}

// BitcoinTestnetPreset returns the Bitcoin testnet profile with relaxed
// eligibility rules.
func BitcoinTestnetPreset() PresetConfig {
	cfg := BitcoinMainnetPreset()
	cfg.Rules = params.BitcoinTestnetRules()
	cfg.IndexerURL = "https://blockstream.info/testnet/api"
	return cfg
}

// XRPLMainnetPreset returns the production XRP Ledger profile, pointed at
// a public rippled JSON-RPC endpoint.
func XRPLMainnetPreset() PresetConfig {
	return PresetConfig{
		Rules:            params.XRPLMainnetRules(),
		IndexerURL:       "https://s1.ripple.com:51234",
		RegistryRPC:      "https://rpc.stakegen.example",
		RegistryContract: DefaultRegistryContract,
	}
}

// FakeNetPreset returns an accelerated local-testing profile: UTXO rules
// with single-confirmation finality and local collaborator endpoints.
func FakeNetPreset() PresetConfig {
	return PresetConfig{
		Rules:            params.FakeNetRules(inter.KindUTXO),
		IndexerURL:       "http://127.0.0.1:3000",
		RegistryRPC:      "http://127.0.0.1:8545",
		RegistryContract: DefaultRegistryContract,
	}
}

// GetPresetByName looks up a preset by its identifier. Returns an error
// for unrecognized names so a typo cannot silently derive with the wrong
// consensus parameters.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "bitcoin-mainnet":
		return BitcoinMainnetPreset(), nil
	case "bitcoin-testnet":
		return BitcoinTestnetPreset(), nil
	case "xrpl-mainnet":
		return XRPLMainnetPreset(), nil
	case "fakenet":
		return FakeNetPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset %q", name)
	}
}
