package bootstrap

import (
	"github.com/ethereum/go-ethereum/common"
)

// BindingRegistry maintains the permanent, bidirectional 1:1 map between
// source-chain depositor addresses and destination-chain identities. It is
// the single source of truth for the binding invariant: each source address
// binds to exactly one destination address for the lifetime of the run, and
// vice versa.
//
// The registry is deliberately order-sensitive: callers must present
// candidate pairs in canonical (height, index, txid) order so that "first
// valid stake wins" is a function of chain history, not of the order an
// indexer happened to return pages in. The pipeline sorts before validating.
//
// Not safe for concurrent use; one registry exists per single-threaded run.
type BindingRegistry struct {
	bySource map[string]common.Address
	byDest   map[common.Address]string
}

// NewBindingRegistry returns an empty registry. State is constructed once
// per run and threaded through the validator, never process-wide.
func NewBindingRegistry() *BindingRegistry {
	return &BindingRegistry{
		bySource: make(map[string]common.Address),
		byDest:   make(map[common.Address]string),
	}
}

// TryBind attempts to establish (or re-assert) the binding source <-> dest.
//
// Returns true and records both directions if neither address is bound yet.
// Returns true without mutation if the exact pair is already bound
// (idempotent re-bind). Returns false and performs no mutation if either
// address is already bound to a different counterpart; the existing binding
// is never overwritten.
func (r *BindingRegistry) TryBind(source string, dest common.Address) bool {
	boundDest, srcKnown := r.bySource[source]
	boundSrc, destKnown := r.byDest[dest]

	if srcKnown || destKnown {
		// Accept only the exact existing pair.
		return srcKnown && destKnown && boundDest == dest && boundSrc == source
	}

	r.bySource[source] = dest
	r.byDest[dest] = source
	return true
}

// DestOf returns the destination identity bound to a source address.
func (r *BindingRegistry) DestOf(source string) (common.Address, bool) {
	dest, ok := r.bySource[source]
	return dest, ok
}

// SourceOf returns the source address bound to a destination identity.
func (r *BindingRegistry) SourceOf(dest common.Address) (string, bool) {
	source, ok := r.byDest[dest]
	return source, ok
}

// Len returns the number of established bindings.
func (r *BindingRegistry) Len() int {
	return len(r.bySource)
}
