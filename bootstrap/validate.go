package bootstrap

import (
	"context"
	"math/big"

	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/params"
)

// ValidatorRegistry is the read-only external authority that knows which
// validator operators are registered on the destination chain, and their
// consensus public keys. A failed lookup is a collaborator failure and
// aborts the run; the client is expected to have resolved retries itself.
//
// consensusKey is the hex-encoded key, or empty when the registry has no
// key on file for the operator.
type ValidatorRegistry interface {
	ValidatorInfo(ctx context.Context, operator string) (registered bool, consensusKey string, err error)
}

// TxValidator applies the full eligibility rule set to one transaction at a
// time. It owns no I/O besides registry lookups and mutates nothing except
// the binding registry (on acceptance). One instance exists per run and
// must be fed transactions in canonical order, because binding precedence
// is first-valid-stake-wins.
type TxValidator struct {
	rules    params.Rules
	decoder  PayloadDecoder
	bindings *BindingRegistry
	registry ValidatorRegistry
	height   uint64 // current chain height at the start of the run
}

// NewTxValidator builds the validator for one run. The binding registry is
// passed in (not created here) so tests and the pipeline control its
// lifetime explicitly.
func NewTxValidator(rules params.Rules, registry ValidatorRegistry, bindings *BindingRegistry, currentHeight uint64) (*TxValidator, error) {
	decoder, err := DecoderFor(rules.Kind)
	if err != nil {
		return nil, err
	}
	return &TxValidator{
		rules:    rules,
		decoder:  decoder,
		bindings: bindings,
		registry: registry,
		height:   currentHeight,
	}, nil
}

// Validate accepts the transaction only if every eligibility rule holds:
//
//  1. confirmed, with currentHeight - txHeight + 1 >= MinConfirmations
//  2. the chain's expected transfer type
//  3. exactly one transfer to the collection address, amount >= minimum
//  4. the sender is attributable to a source address
//  5. no input/sender is the collection address itself (no self-stake)
//  6. exactly one protocol payload, and it decodes
//  7. the decoded validator is registered with the external registry
//  8. the (source, destination) pair respects the binding invariant
//
// On success it returns the immutable BootstrapStake and, for a previously
// unbound source address, establishes the binding as a side effect. On
// failure it returns a *RejectError carrying the typed reason; any other
// error is a registry collaborator failure.
func (v *TxValidator) Validate(ctx context.Context, tx *inter.SourceTx) (*inter.BootstrapStake, error) {
	// 1. Finality.
	if !tx.Confirmed {
		return nil, reject(ReasonUnconfirmed, "tx %s not confirmed", tx.Hash)
	}
	if tx.Height > v.height || v.height-tx.Height+1 < v.rules.MinConfirmations {
		return nil, reject(ReasonUnconfirmed, "tx %s has %d confirmations, want %d",
			tx.Hash, confirmations(v.height, tx.Height), v.rules.MinConfirmations)
	}

	// 2. Transaction type.
	if tx.Type != v.rules.ExpectedTxType {
		return nil, reject(ReasonWrongTxType, "tx type %q, want %q", tx.Type, v.rules.ExpectedTxType)
	}

	// 3. Exactly one qualifying transfer to the collection address.
	amount, err := v.collectionAmount(tx)
	if err != nil {
		return nil, err
	}

	// 4. The depositor must be attributable. An empty sender (inputs the
	// indexer could not resolve to an address) must never reach the binding
	// registry: binding "" would record the stake under a non-address
	// identity and lock out every later unattributable depositor.
	if tx.Sender == "" {
		return nil, reject(ReasonUnknownSender, "tx %s has no attributable sender", tx.Hash)
	}

	// 5. No self-transfers: stake sent from the collection address itself
	// would let the operator mint deposits out of pooled funds.
	if tx.Sender == v.rules.CollectionAddress {
		return nil, reject(ReasonSelfTransfer, "sender is the collection address")
	}
	for _, in := range tx.Inputs {
		if in == v.rules.CollectionAddress {
			return nil, reject(ReasonSelfTransfer, "input spends from the collection address")
		}
	}

	// 6. Exactly one protocol payload, and it must decode.
	if len(tx.Payloads) == 0 {
		return nil, reject(ReasonNoPayload, "no protocol payload present")
	}
	if len(tx.Payloads) > 1 {
		return nil, reject(ReasonMultiplePayloads, "%d protocol payloads present", len(tx.Payloads))
	}
	dest, operator, err := v.decoder.DecodePayload(tx.Payloads[0])
	if err != nil {
		return nil, err
	}

	// 7. Validator registration. Hard rejection when unregistered; lookup
	// failures bubble up and abort the run.
	registered, _, err := v.registry.ValidatorInfo(ctx, operator)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, reject(ReasonUnregisteredValidator, "validator %s not registered", operator)
	}

	// 8. Binding invariant. TryBind both checks and, for a fresh source
	// address, establishes the permanent binding.
	if !v.bindings.TryBind(tx.Sender, dest) {
		return nil, reject(ReasonBindingConflict,
			"source %s / destination %s conflicts with an earlier binding", tx.Sender, dest.Hex())
	}

	return &inter.BootstrapStake{
		TxID:      tx.Hash,
		Height:    tx.Height,
		Index:     tx.Index,
		Source:    tx.Sender,
		Dest:      dest,
		Validator: operator,
		Amount:    new(big.Int).Set(amount),
		Time:      tx.Time,
	}, nil
}

// collectionAmount enforces rule 3: among the transaction's transfers,
// exactly one must credit the collection address, and its amount must reach
// the configured minimum.
func (v *TxValidator) collectionAmount(tx *inter.SourceTx) (*big.Int, error) {
	var amount *big.Int
	for _, tr := range tx.Transfers {
		if tr.Recipient != v.rules.CollectionAddress {
			continue
		}
		if amount != nil {
			return nil, reject(ReasonMultipleCollectionTransfers,
				"more than one transfer to the collection address")
		}
		amount = tr.Amount
	}
	if amount == nil {
		return nil, reject(ReasonNoCollectionTransfer, "no transfer to the collection address")
	}
	if amount.Cmp(v.rules.MinStakeAmount) < 0 {
		return nil, reject(ReasonBelowMinStake, "amount %s below minimum %s",
			amount.String(), v.rules.MinStakeAmount.String())
	}
	return amount, nil
}

func confirmations(current, txHeight uint64) uint64 {
	if txHeight > current {
		return 0
	}
	return current - txHeight + 1
}
