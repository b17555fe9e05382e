// Package registry implements the read-only client for the validator
// registry contract: the external authority that knows which operators are
// registered on the destination chain and their consensus public keys.
//
// The registry is an EVM contract queried over JSON-RPC with eth_call. The
// client performs exactly one contract method per lookup and reports any
// transport or ABI failure to the caller; the pipeline treats such failures
// as fatal to the run. Per-run memoization happens in the pipeline, not
// here, so the client stays a stateless I/O boundary.
package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rony4d/go-stakegen/bootstrap"
)

// ContractABI is the JSON ABI fragment of the registry contract consumed by
// this client:
//
//	validatorInfo(address operator) view
//	    returns (bool registered, bytes consensusPublicKey)
//
// The operator argument is the 20-byte payload of the bech32 operator
// address. consensusPublicKey is empty when no key is on file.
const ContractABI = `[{"constant":true,"inputs":[{"internalType":"address","name":"operator","type":"address"}],"name":"validatorInfo","outputs":[{"internalType":"bool","name":"registered","type":"bool"},{"internalType":"bytes","name":"consensusPublicKey","type":"bytes"}],"payable":false,"stateMutability":"view","type":"function"}]`

// registryABI is parsed once at package initialization; the ABI string is a
// constant, so a parse failure is a programming error.
var registryABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		panic(err)
	}
	if _, ok := parsed.Methods["validatorInfo"]; !ok {
		panic("registry ABI misses validatorInfo")
	}
	registryABI = parsed
}

// Caller abstracts the single eth_call capability the client needs.
// *ethclient.Client satisfies it; tests substitute a local fake.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client is a validator-registry lookup bound to one contract address.
// It implements bootstrap.ValidatorRegistry.
type Client struct {
	caller   Caller
	contract common.Address
}

// NewClient builds a registry client around an existing caller.
func NewClient(caller Caller, contract common.Address) *Client {
	return &Client{caller: caller, contract: contract}
}

// Dial connects to an EVM JSON-RPC endpoint and binds the registry client
// to the contract address.
func Dial(rawurl string, contract common.Address) (*Client, error) {
	eth, err := ethclient.Dial(rawurl)
	if err != nil {
		return nil, fmt.Errorf("dial registry rpc %s: %w", rawurl, err)
	}
	return NewClient(eth, contract), nil
}

// ValidatorInfo reports whether the operator is registered and, if the
// registry has one on file, the hex-encoded consensus public key.
//
// A malformed operator address is reported as an error here (not silently
// unregistered): the decoder validates addresses before the registry is
// consulted, so reaching this path with a bad address is a caller bug.
func (c *Client) ValidatorInfo(ctx context.Context, operator string) (bool, string, error) {
	addr, err := bootstrap.ValidatorAddressBytes(operator)
	if err != nil {
		return false, "", fmt.Errorf("operator %q: %w", operator, err)
	}

	data, err := registryABI.Pack("validatorInfo", addr)
	if err != nil {
		return false, "", fmt.Errorf("pack validatorInfo: %w", err)
	}

	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return false, "", fmt.Errorf("registry call for %s: %w", operator, err)
	}

	values, err := registryABI.Unpack("validatorInfo", out)
	if err != nil {
		return false, "", fmt.Errorf("registry response for %s: %w", operator, err)
	}
	registered, ok := values[0].(bool)
	if !ok {
		return false, "", fmt.Errorf("registry response for %s: unexpected registered type %T", operator, values[0])
	}
	keyBytes, ok := values[1].([]byte)
	if !ok {
		return false, "", fmt.Errorf("registry response for %s: unexpected key type %T", operator, values[1])
	}

	consensusKey := ""
	if len(keyBytes) > 0 {
		consensusKey = "0x" + common.Bytes2Hex(keyBytes)
	}
	return registered, consensusKey, nil
}
