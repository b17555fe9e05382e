// Package bitcoin implements the Chain Reader for Bitcoin-style UTXO
// chains, backed by an Esplora-compatible HTTP indexer (blockstream.info,
// mempool.space, or a self-hosted electrs).
//
// The reader retrieves the complete confirmed history of the collection
// address, page by page, and normalizes each transaction into the
// chain-neutral inter.SourceTx shape. It enforces nothing about stake
// eligibility; that is the validator's job. Any transport or parse failure
// is returned to the pipeline, which treats it as fatal to the run.
package bitcoin

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rony4d/go-stakegen/inter"
)

// DefaultTimeout bounds a single indexer request. The pipeline core has no
// timeout policy of its own; this is the collaborator's.
const DefaultTimeout = 30 * time.Second

// txTypeTransfer is the type tag of every Bitcoin transaction: value
// transfer is the only transaction kind the chain has.
const txTypeTransfer = "transfer"

// Client reads the collection address history from an Esplora-style REST
// indexer.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a reader for the given indexer base URL (e.g.
// "https://blockstream.info/api"). A nil httpClient gets a default with
// DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: httpClient,
	}
}

// CurrentHeight returns the indexer's chain tip height
// (GET /blocks/tip/height, plain decimal body).
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	body, err := c.get(ctx, c.base+"/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse tip height %q: %w", string(body), err)
	}
	return height, nil
}

// ListTransactions pages through the address's confirmed history
// (GET /address/{addr}/txs/chain[/{lastSeenTxid}]) until the indexer
// returns an empty page. No ordering is assumed from the indexer; the
// pipeline sorts canonically.
func (c *Client) ListTransactions(ctx context.Context, collection string) ([]inter.SourceTx, error) {
	var (
		out      []inter.SourceTx
		lastSeen string
	)
	for {
		url := c.base + "/address/" + collection + "/txs/chain"
		if lastSeen != "" {
			url += "/" + lastSeen
		}
		body, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}
		var page []esploraTx
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parse address txs page: %w", err)
		}
		if len(page) == 0 {
			return out, nil
		}
		for i := range page {
			tx, err := page[i].toSourceTx()
			if err != nil {
				return nil, fmt.Errorf("tx %s: %w", page[i].TxID, err)
			}
			out = append(out, tx)
		}
		lastSeen = page[len(page)-1].TxID
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indexer request %s: %w", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("indexer response %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer response %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// esploraTx mirrors the subset of the Esplora transaction format the
// reader consumes.
type esploraTx struct {
	TxID   string `json:"txid"`
	Status struct {
		Confirmed   bool   `json:"confirmed"`
		BlockHeight uint64 `json:"block_height"`
		BlockTime   uint64 `json:"block_time"`
	} `json:"status"`
	Vin []struct {
		Prevout struct {
			Address string `json:"scriptpubkey_address"`
		} `json:"prevout"`
	} `json:"vin"`
	Vout []struct {
		ScriptPubKey string `json:"scriptpubkey"`
		Type         string `json:"scriptpubkey_type"`
		Address      string `json:"scriptpubkey_address"`
		Value        int64  `json:"value"`
	} `json:"vout"`
}

// toSourceTx normalizes one indexer transaction. Address-bearing outputs
// become transfers; op_return outputs become payload candidates carrying
// the full output script.
//
// Esplora does not expose a transaction's position within its block, so
// Index stays zero and the canonical order falls back to the txid
// tie-break within a block.
func (t *esploraTx) toSourceTx() (inter.SourceTx, error) {
	tx := inter.SourceTx{
		Hash:      t.TxID,
		Height:    t.Status.BlockHeight,
		Confirmed: t.Status.Confirmed,
		Type:      txTypeTransfer,
		Time:      inter.Timestamp(t.Status.BlockTime),
	}
	for _, in := range t.Vin {
		if in.Prevout.Address == "" {
			continue
		}
		if tx.Sender == "" {
			tx.Sender = in.Prevout.Address
		}
		tx.Inputs = append(tx.Inputs, in.Prevout.Address)
	}
	for _, out := range t.Vout {
		if out.Type == "op_return" {
			script, err := hex.DecodeString(out.ScriptPubKey)
			if err != nil {
				return inter.SourceTx{}, fmt.Errorf("op_return script: %w", err)
			}
			tx.Payloads = append(tx.Payloads, inter.Payload{Data: script})
			continue
		}
		if out.Address == "" {
			continue
		}
		tx.Transfers = append(tx.Transfers, inter.Transfer{
			Recipient: out.Address,
			Amount:    big.NewInt(out.Value),
		})
	}
	return tx, nil
}
