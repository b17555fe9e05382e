package bootstrap

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-stakegen/genesis"
	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/inter/validatorpk"
	"github.com/rony4d/go-stakegen/params"
)

// ChainReader retrieves the full confirmed transaction history of the
// collection address and the current chain height. It is a pure I/O
// boundary: pagination, response parsing, and per-chain quirks live in the
// chains/* implementations. A failed call is a collaborator failure and
// aborts the run. No ordering guarantee is assumed from the reader; the
// pipeline sorts canonically before validating.
type ChainReader interface {
	ListTransactions(ctx context.Context, collection string) ([]inter.SourceTx, error)
	CurrentHeight(ctx context.Context) (uint64, error)
}

// Pipeline wires one source chain's derivation run: reader, registry,
// rules, logging. Build it once per run; it holds no state between runs.
type Pipeline struct {
	rules    params.Rules
	reader   ChainReader
	registry ValidatorRegistry
	log      *logrus.Logger
}

// NewPipeline validates the rules and assembles a run. A nil logger gets a
// default logrus logger so library users don't have to care.
func NewPipeline(rules params.Rules, reader ChainReader, registry ValidatorRegistry, log *logrus.Logger) (*Pipeline, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		rules:    rules.Copy(),
		reader:   reader,
		registry: registry,
		log:      log,
	}, nil
}

// Run executes one complete derivation pass and returns the genesis
// fragment plus the run report. The run either completes fully or fails
// with an error; no partial fragment is ever returned.
//
// Steps: query height, list the collection address history, sort it into
// canonical (height, index, txid) order, validate every transaction in that
// order, aggregate the accepted stakes, and build the fragment. Registry
// lookups are memoized for the whole run, so each operator is queried at
// most once and its registration decision is consistent across all stakes
// referencing it.
func (p *Pipeline) Run(ctx context.Context) (*genesis.Fragment, *Report, error) {
	log := p.log.WithField("chain", p.rules.Name)

	height, err := p.reader.CurrentHeight(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("query current height: %w", err)
	}
	log.WithField("height", height).Info("starting derivation run")

	txs, err := p.reader.ListTransactions(ctx, p.rules.CollectionAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("list collection transactions: %w", err)
	}
	sortCanonical(txs)
	log.WithField("transactions", len(txs)).Info("collection history retrieved")

	registry := newMemoRegistry(p.registry)
	validator, err := NewTxValidator(p.rules, registry, NewBindingRegistry(), height)
	if err != nil {
		return nil, nil, err
	}

	// Rejected starts non-nil so a clean run still serializes the
	// rejections field as an empty array.
	report := &Report{ChainName: p.rules.Name, Height: height, Seen: len(txs), Rejected: []Rejection{}}
	stakes := make([]inter.BootstrapStake, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		stake, err := validator.Validate(ctx, tx)
		if err != nil {
			rej, ok := AsReject(err)
			if !ok {
				// Registry failure mid-run; the fragment would be
				// inconsistent, so nothing is emitted.
				return nil, nil, fmt.Errorf("validate tx %s: %w", tx.Hash, err)
			}
			report.addRejection(tx.Hash, tx.Height, rej)
			log.WithFields(logrus.Fields{
				"tx":     tx.Hash,
				"height": tx.Height,
				"reason": rej.Reason.String(),
			}).Debug(rej.Detail)
			continue
		}
		stakes = append(stakes, *stake)
	}
	report.Accepted = len(stakes)

	agg := AggregateStakes(stakes, p.rules)
	if err := checkConservation(stakes, agg); err != nil {
		return nil, nil, err
	}

	rankKeys, err := p.rankingKeys(ctx, registry, agg)
	if err != nil {
		return nil, nil, err
	}

	fragment, err := genesis.Build(agg, p.rules, rankKeys, time.Now())
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(logrus.Fields{
		"accepted":   report.Accepted,
		"rejected":   len(report.Rejected),
		"validators": len(fragment.Validators),
		"lookups":    registry.Lookups(),
	}).Info("derivation run complete")
	for reason, n := range report.CountByReason() {
		log.WithFields(logrus.Fields{"reason": reason, "count": n}).Info("exclusions")
	}
	return fragment, report, nil
}

// rankingKeys resolves each aggregated operator's ranking key: the
// consensus public key reported by the registry when one parses, otherwise
// the operator address itself. All lookups hit the memo cache, so this
// pass performs no network calls.
func (p *Pipeline) rankingKeys(ctx context.Context, registry ValidatorRegistry, agg *inter.Aggregates) (map[string]string, error) {
	keys := make(map[string]string)
	for _, v := range agg.Validators() {
		_, consensusKey, err := registry.ValidatorInfo(ctx, v.Operator)
		if err != nil {
			return nil, fmt.Errorf("resolve consensus key of %s: %w", v.Operator, err)
		}
		keys[v.Operator] = v.Operator
		if consensusKey != "" {
			if pk, err := validatorpk.FromString(consensusKey); err == nil && !pk.Empty() {
				keys[v.Operator] = pk.String()
			}
		}
	}
	return keys, nil
}

// sortCanonical orders transactions by (height, intra-block index, txid)
// ascending. Binding precedence must be a function of chain history, not of
// the order the indexer returned pages in.
func sortCanonical(txs []inter.SourceTx) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Height != txs[j].Height {
			return txs[i].Height < txs[j].Height
		}
		if txs[i].Index != txs[j].Index {
			return txs[i].Index < txs[j].Index
		}
		return txs[i].Hash < txs[j].Hash
	})
}

// checkConservation asserts the aggregation invariant: the sum of accepted
// stake amounts equals the sum of validator totals equals the sum of staker
// deposits. A mismatch means an internal bug, and the run must not emit a
// fragment built from inconsistent numbers.
func checkConservation(stakes []inter.BootstrapStake, agg *inter.Aggregates) error {
	accepted := new(big.Int)
	for i := range stakes {
		accepted.Add(accepted, stakes[i].Amount)
	}
	if deposited := agg.TotalDeposited(); deposited.Cmp(accepted) != 0 {
		return fmt.Errorf("conservation violated: accepted %s != deposited %s", accepted, deposited)
	}
	if delegated := agg.TotalDelegated(); delegated.Cmp(accepted) != 0 {
		return fmt.Errorf("conservation violated: accepted %s != delegated %s", accepted, delegated)
	}
	return nil
}

// memoRegistry caches registry responses per run, bounding external call
// volume and guaranteeing one consistent registration decision per
// operator.
type memoRegistry struct {
	inner   ValidatorRegistry
	cache   map[string]registryEntry
	lookups int
}

type registryEntry struct {
	registered   bool
	consensusKey string
}

func newMemoRegistry(inner ValidatorRegistry) *memoRegistry {
	return &memoRegistry{
		inner: inner,
		cache: make(map[string]registryEntry),
	}
}

func (m *memoRegistry) ValidatorInfo(ctx context.Context, operator string) (bool, string, error) {
	if e, ok := m.cache[operator]; ok {
		return e.registered, e.consensusKey, nil
	}
	registered, consensusKey, err := m.inner.ValidatorInfo(ctx, operator)
	if err != nil {
		// Errors are not cached: they abort the run anyway.
		return false, "", err
	}
	m.lookups++
	m.cache[operator] = registryEntry{registered: registered, consensusKey: consensusKey}
	return registered, consensusKey, nil
}

// Lookups reports how many distinct operators were actually queried.
func (m *memoRegistry) Lookups() int {
	return m.lookups
}
