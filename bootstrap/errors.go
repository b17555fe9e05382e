// Package bootstrap implements the core ingestion-validation-aggregation
// pipeline that derives a genesis fragment from bootstrap-stake transactions
// observed on a source chain.
//
// The pipeline is a single forward pass:
//
//	ChainReader -> canonical ordering -> PayloadDecoder -> TxValidator
//	  (<-> BindingRegistry, <-> ValidatorRegistry) -> aggregation -> genesis
//
// Per-transaction failures are typed RejectReason values collected into a
// Report; they never abort the run. Collaborator failures (indexer or
// registry unreachable) abort the run with no output, because a partial
// genesis is worse than no genesis.
package bootstrap

import (
	"errors"
	"fmt"
)

// RejectReason classifies why a transaction was excluded from the genesis
// derivation. Reasons are stable values so tests and reports can assert on
// them instead of parsing diagnostic text.
type RejectReason uint8

const (
	// ReasonNone marks an accepted transaction.
	ReasonNone RejectReason = iota

	// ReasonUnconfirmed: the transaction is unconfirmed or below the
	// required confirmation depth. It may qualify on a later run.
	ReasonUnconfirmed

	// ReasonWrongTxType: not the expected transfer type for the chain.
	ReasonWrongTxType

	// ReasonNoCollectionTransfer: no output/payment credits the collection
	// address.
	ReasonNoCollectionTransfer

	// ReasonMultipleCollectionTransfers: more than one output credits the
	// collection address, so the staked amount is ambiguous.
	ReasonMultipleCollectionTransfers

	// ReasonBelowMinStake: the collection output is below the configured
	// minimum stake amount.
	ReasonBelowMinStake

	// ReasonSelfTransfer: an input or the sender is the collection address
	// itself.
	ReasonSelfTransfer

	// ReasonNoPayload: no protocol payload field is present.
	ReasonNoPayload

	// ReasonMultiplePayloads: more than one protocol payload field is
	// present, so the (destination, validator) pair is ambiguous.
	ReasonMultiplePayloads

	// ReasonMalformedPayload: the payload violates the exact byte/field
	// layout of the chain's protocol variant.
	ReasonMalformedPayload

	// ReasonInvalidAddress: an embedded address fails checksum, length, or
	// encoding validation.
	ReasonInvalidAddress

	// ReasonUnregisteredValidator: the named validator is not registered
	// with the external registry. Hard rejection, uniformly for both chain
	// variants.
	ReasonUnregisteredValidator

	// ReasonBindingConflict: the (source, destination) pair contradicts an
	// earlier binding. The existing binding is never overwritten.
	ReasonBindingConflict

	// ReasonUnknownSender: the reader could not attribute the transaction
	// to a source address, so no binding can be established for it.
	ReasonUnknownSender
)

// rejectReasonNames maps reasons to their report identifiers.
var rejectReasonNames = map[RejectReason]string{
	ReasonNone:                        "none",
	ReasonUnconfirmed:                 "insufficient_confirmations",
	ReasonWrongTxType:                 "wrong_tx_type",
	ReasonNoCollectionTransfer:        "no_collection_transfer",
	ReasonMultipleCollectionTransfers: "multiple_collection_transfers",
	ReasonBelowMinStake:               "below_min_stake",
	ReasonSelfTransfer:                "self_transfer",
	ReasonNoPayload:                   "no_payload",
	ReasonMultiplePayloads:            "multiple_payloads",
	ReasonMalformedPayload:            "malformed_payload",
	ReasonInvalidAddress:              "invalid_address",
	ReasonUnregisteredValidator:       "unregistered_validator",
	ReasonBindingConflict:             "binding_conflict",
	ReasonUnknownSender:               "unknown_sender",
}

// String returns the stable report identifier of the reason.
func (r RejectReason) String() string {
	if name, ok := rejectReasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

// RejectError signals that a single transaction failed validation. It is
// recoverable: the pipeline records it and continues with the next
// transaction. Any other error type coming out of validation is a
// collaborator failure and aborts the run.
type RejectError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectError) Error() string {
	if e.Detail == "" {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.Detail
}

// reject builds a RejectError with a formatted detail string.
func reject(reason RejectReason, format string, args ...interface{}) *RejectError {
	return &RejectError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// AsReject checks whether an error is a per-transaction rejection and
// returns it.
func AsReject(err error) (*RejectError, bool) {
	var r *RejectError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Rejection records one excluded transaction for the run report.
type Rejection struct {
	TxID   string       `json:"tx_id"`
	Height uint64       `json:"height"`
	Reason RejectReason `json:"-"`
	Name   string       `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}

// Report summarizes one derivation run: how many transactions were seen,
// how many stakes were accepted, and every exclusion with its reason.
type Report struct {
	ChainName string      `json:"chain"`
	Height    uint64      `json:"height"`
	Seen      int         `json:"transactions_seen"`
	Accepted  int         `json:"stakes_accepted"`
	Rejected  []Rejection `json:"rejections"`
}

// addRejection appends one exclusion to the report.
func (r *Report) addRejection(txID string, height uint64, re *RejectError) {
	r.Rejected = append(r.Rejected, Rejection{
		TxID:   txID,
		Height: height,
		Reason: re.Reason,
		Name:   re.Reason.String(),
		Detail: re.Detail,
	})
}

// CountByReason tallies rejections per reason name, for log summaries.
func (r *Report) CountByReason() map[string]int {
	counts := make(map[string]int, len(r.Rejected))
	for _, rej := range r.Rejected {
		counts[rej.Name]++
	}
	return counts
}
