package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// ChainFlags covers the source chain: which preset to start from, the
// collection address, eligibility parameters, and the indexer endpoint.
// Every flag overrides the corresponding preset value.
func ChainFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Named network preset (bitcoin-mainnet|bitcoin-testnet|xrpl-mainnet|fakenet)",
			Value: "bitcoin-mainnet",
		},
		cli.StringFlag{
			Name:  "collection",
			Usage: "Collection address receiving bootstrap stakes",
		},
		cli.Uint64Flag{
			Name:  "minconf",
			Usage: "Minimum confirmation depth for a stake to count",
		},
		cli.StringFlag{
			Name:  "minstake",
			Usage: "Minimum stake amount in the chain's smallest unit (decimal)",
		},
		cli.IntFlag{
			Name:  "maxvalidators",
			Usage: "Maximum number of validators in the initial set",
		},
		cli.StringFlag{
			Name:  "price",
			Usage: "Reference asset price, integer with 8 decimals (decimal string)",
		},
		cli.StringFlag{
			Name:  "indexer.url",
			Usage: "Source chain indexer endpoint (Esplora base URL or XRPL JSON-RPC URL)",
		},
	}
}

// RegistryFlags covers the validator registry contract lookup.
func RegistryFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "registry.rpc",
			Usage: "EVM JSON-RPC endpoint hosting the validator registry contract",
		},
		cli.StringFlag{
			Name:  "registry.contract",
			Usage: "Validator registry contract address (0x-hex)",
		},
	}
}
