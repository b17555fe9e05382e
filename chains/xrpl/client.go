// Package xrpl implements the Chain Reader for XRP-style ledger chains,
// backed by a rippled/Clio JSON-RPC endpoint.
//
// The reader pages through the collection account's validated transaction
// history with account_tx marker pagination and normalizes each Payment
// into the chain-neutral inter.SourceTx shape. Memos tagged with the stake
// marker become payload candidates; everything else about eligibility is
// the validator's job.
package xrpl

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/params"
)

// DefaultTimeout bounds a single JSON-RPC request.
const DefaultTimeout = 30 * time.Second

// pageLimit is the account_tx page size requested per call.
const pageLimit = 200

// rippleEpochOffset converts the XRPL close-time epoch (2000-01-01) to the
// unix epoch.
const rippleEpochOffset = 946684800

// successResult is the transaction result code of an applied transaction.
const successResult = "tesSUCCESS"

// Client reads the collection account history from a rippled JSON-RPC
// endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a reader for the given JSON-RPC URL (e.g.
// "https://s1.ripple.com:51234"). A nil httpClient gets a default with
// DefaultTimeout.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{url: url, http: httpClient}
}

// CurrentHeight returns the latest validated ledger index.
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	var result struct {
		LedgerIndex uint64 `json:"ledger_index"`
	}
	req := map[string]interface{}{"ledger_index": "validated"}
	if err := c.call(ctx, "ledger", req, &result); err != nil {
		return 0, err
	}
	if result.LedgerIndex == 0 {
		return 0, fmt.Errorf("ledger response misses ledger_index")
	}
	return result.LedgerIndex, nil
}

// ListTransactions pages through account_tx until the response carries no
// marker. Only validated Payment transactions that actually applied
// (tesSUCCESS) make it into the result; everything else cannot carry a
// stake. No ordering is assumed; the pipeline sorts canonically.
func (c *Client) ListTransactions(ctx context.Context, collection string) ([]inter.SourceTx, error) {
	var (
		out    []inter.SourceTx
		marker json.RawMessage
	)
	for {
		req := map[string]interface{}{
			"account":          collection,
			"ledger_index_min": -1,
			"ledger_index_max": -1,
			"limit":            pageLimit,
		}
		if marker != nil {
			req["marker"] = marker
		}
		var result struct {
			Transactions []accountTxEntry `json:"transactions"`
			Marker       json.RawMessage  `json:"marker"`
		}
		if err := c.call(ctx, "account_tx", req, &result); err != nil {
			return nil, err
		}
		for i := range result.Transactions {
			tx, ok, err := result.Transactions[i].toSourceTx()
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, tx)
			}
		}
		if result.Marker == nil {
			return out, nil
		}
		marker = result.Marker
	}
}

// call performs one JSON-RPC request in rippled's envelope format and
// decodes result into out after checking the per-result status.
func (c *Client) call(ctx context.Context, method string, reqParams interface{}, out interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"method": method,
		"params": []interface{}{reqParams},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xrpl request %s: %w", method, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("xrpl response %s: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("xrpl response %s: status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("xrpl response %s: %w", method, err)
	}
	var status struct {
		Status       string `json:"status"`
		Error        string `json:"error"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(envelope.Result, &status); err != nil {
		return fmt.Errorf("xrpl response %s: %w", method, err)
	}
	if status.Status != "success" {
		return fmt.Errorf("xrpl %s failed: %s %s", method, status.Error, status.ErrorMessage)
	}
	return json.Unmarshal(envelope.Result, out)
}

// accountTxEntry mirrors the subset of the account_tx entry format the
// reader consumes.
type accountTxEntry struct {
	Validated bool `json:"validated"`
	Tx        struct {
		Hash            string          `json:"hash"`
		TransactionType string          `json:"TransactionType"`
		Account         string          `json:"Account"`
		Destination     string          `json:"Destination"`
		Amount          json.RawMessage `json:"Amount"`
		LedgerIndex     uint64          `json:"ledger_index"`
		Date            uint64          `json:"date"`
		Memos           []struct {
			Memo struct {
				MemoType string `json:"MemoType"`
				MemoData string `json:"MemoData"`
			} `json:"Memo"`
		} `json:"Memos"`
	} `json:"tx"`
	Meta struct {
		TransactionIndex  uint32          `json:"TransactionIndex"`
		TransactionResult string          `json:"TransactionResult"`
		DeliveredAmount   json.RawMessage `json:"delivered_amount"`
	} `json:"meta"`
}

// toSourceTx normalizes one history entry. The second return is false for
// entries that cannot possibly carry a stake: unvalidated or failed
// transactions, and issued-currency payments (Amount not in drops).
func (e *accountTxEntry) toSourceTx() (inter.SourceTx, bool, error) {
	if !e.Validated || e.Meta.TransactionResult != successResult {
		return inter.SourceTx{}, false, nil
	}

	tx := inter.SourceTx{
		Hash:      e.Tx.Hash,
		Height:    e.Tx.LedgerIndex,
		Index:     e.Meta.TransactionIndex,
		Confirmed: true,
		Type:      strings.ToLower(e.Tx.TransactionType),
		Sender:    e.Tx.Account,
		Inputs:    []string{e.Tx.Account},
		Time:      inter.Timestamp(e.Tx.Date + rippleEpochOffset),
	}

	// The credited value is meta.delivered_amount, never the Payment's
	// face-value Amount: a tfPartialPayment transaction validates with
	// tesSUCCESS while delivering less than Amount, and crediting the face
	// value would let a staker inflate their deposit. Amount is only a
	// fallback for old ledgers that predate the field. Native-XRP amounts
	// are JSON strings of drops; issued currencies are objects and carry no
	// stake.
	rawAmount := e.Meta.DeliveredAmount
	if rawAmount == nil {
		rawAmount = e.Tx.Amount
	}
	var drops string
	if err := json.Unmarshal(rawAmount, &drops); err == nil && e.Tx.Destination != "" {
		amount, ok := new(big.Int).SetString(drops, 10)
		if !ok {
			return inter.SourceTx{}, false, fmt.Errorf("tx %s: invalid drops amount %q", e.Tx.Hash, drops)
		}
		tx.Transfers = append(tx.Transfers, inter.Transfer{
			Recipient: e.Tx.Destination,
			Amount:    amount,
		})
	}

	// Memos are hex-encoded on the wire; only stake-tagged memos become
	// payload candidates.
	for _, m := range e.Tx.Memos {
		memoType, err := hex.DecodeString(m.Memo.MemoType)
		if err != nil {
			continue // foreign memo, not ours to validate
		}
		if string(memoType) != params.LedgerStakeMemoType {
			continue
		}
		// Undecodable memo data still counts as a stake-tagged payload;
		// the decoder rejects it as malformed rather than the whole run
		// aborting on adversarial input.
		memoData, err := hex.DecodeString(m.Memo.MemoData)
		if err != nil {
			memoData = nil
		}
		tx.Payloads = append(tx.Payloads, inter.Payload{
			Tag:  string(memoType),
			Data: memoData,
		})
	}
	return tx, true, nil
}
