package xrpl

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-stakegen/params"
)

type rpcRequest struct {
	Method string                   `json:"method"`
	Params []map[string]interface{} `json:"params"`
}

func decodeRequest(t *testing.T, r *http.Request) rpcRequest {
	t.Helper()
	var req rpcRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	require.Len(t, req.Params, 1)
	return req
}

func TestCurrentHeight(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		require.Equal("ledger", req.Method)
		require.Equal("validated", req.Params[0]["ledger_index"])
		fmt.Fprint(w, `{"result": {"status": "success", "ledger_index": 87654321}}`)
	}))
	defer srv.Close()

	height, err := NewClient(srv.URL, nil).CurrentHeight(context.Background())
	require.NoError(err)
	require.Equal(uint64(87654321), height)
}

func TestCallErrorEnvelope(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": {"status": "error", "error": "actNotFound", "error_message": "Account not found."}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).CurrentHeight(context.Background())
	require.Error(err)
	require.Contains(err.Error(), "actNotFound")
}

func TestListTransactions(t *testing.T) {
	require := require.New(t)

	memoType := hex.EncodeToString([]byte(params.LedgerStakeMemoType))
	memoData := hex.EncodeToString([]byte("payload-bytes"))

	page1 := fmt.Sprintf(`{"result": {"status": "success", "marker": {"ledger": 5, "seq": 1}, "transactions": [
		{
			"validated": true,
			"tx": {
				"hash": "AA01",
				"TransactionType": "Payment",
				"Account": "rSender",
				"Destination": "rCollection",
				"Amount": "2000000",
				"ledger_index": 80000000,
				"date": 1000,
				"Memos": [
					{"Memo": {"MemoType": "%s", "MemoData": "%s"}},
					{"Memo": {"MemoType": "6f74686572", "MemoData": "00"}}
				]
			},
			"meta": {"TransactionIndex": 7, "TransactionResult": "tesSUCCESS"}
		},
		{
			"validated": true,
			"tx": {"hash": "BB02", "TransactionType": "Payment", "Account": "rX", "Destination": "rCollection", "Amount": "1"},
			"meta": {"TransactionIndex": 1, "TransactionResult": "tecUNFUNDED_PAYMENT"}
		},
		{
			"validated": false,
			"tx": {"hash": "CC03", "TransactionType": "Payment", "Account": "rY"},
			"meta": {"TransactionIndex": 2, "TransactionResult": "tesSUCCESS"}
		}
	]}}`, memoType, memoData)

	page2 := `{"result": {"status": "success", "transactions": [
		{
			"validated": true,
			"tx": {
				"hash": "DD04",
				"TransactionType": "Payment",
				"Account": "rIssuer",
				"Destination": "rCollection",
				"Amount": {"currency": "USD", "issuer": "rIssuer", "value": "5"},
				"ledger_index": 80000001
			},
			"meta": {"TransactionIndex": 0, "TransactionResult": "tesSUCCESS"}
		}
	]}}`

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		require.Equal("account_tx", req.Method)
		require.Equal("rCollection", req.Params[0]["account"])
		calls++
		if req.Params[0]["marker"] == nil {
			fmt.Fprint(w, page1)
		} else {
			fmt.Fprint(w, page2)
		}
	}))
	defer srv.Close()

	txs, err := NewClient(srv.URL, nil).ListTransactions(context.Background(), "rCollection")
	require.NoError(err)
	require.Equal(2, calls)

	// Failed and unvalidated entries are dropped; the issued-currency
	// payment survives but carries no transfer.
	require.Len(txs, 2)

	tx := txs[0]
	require.Equal("AA01", tx.Hash)
	require.Equal(uint64(80000000), tx.Height)
	require.Equal(uint32(7), tx.Index)
	require.True(tx.Confirmed)
	require.Equal("payment", tx.Type)
	require.Equal("rSender", tx.Sender)
	require.Equal([]string{"rSender"}, tx.Inputs)
	require.Equal(uint64(1000+946684800), uint64(tx.Time))

	require.Len(tx.Transfers, 1)
	require.Equal("rCollection", tx.Transfers[0].Recipient)
	require.Equal(int64(2000000), tx.Transfers[0].Amount.Int64())

	// Only the stake-tagged memo becomes a payload candidate.
	require.Len(tx.Payloads, 1)
	require.Equal(params.LedgerStakeMemoType, tx.Payloads[0].Tag)
	require.Equal([]byte("payload-bytes"), tx.Payloads[0].Data)

	require.Equal("DD04", txs[1].Hash)
	require.Empty(txs[1].Transfers)
}

func TestListTransactionsPartialPayment(t *testing.T) {
	require := require.New(t)

	// A tfPartialPayment transaction validates with tesSUCCESS while
	// delivering less than its face-value Amount. Only the delivered amount
	// may be credited.
	page := `{"result": {"status": "success", "transactions": [
		{
			"validated": true,
			"tx": {
				"hash": "AA10",
				"TransactionType": "Payment",
				"Account": "rTricky",
				"Destination": "rCollection",
				"Amount": "1000000",
				"ledger_index": 80000002
			},
			"meta": {"TransactionIndex": 0, "TransactionResult": "tesSUCCESS", "delivered_amount": "1"}
		},
		{
			"validated": true,
			"tx": {
				"hash": "BB11",
				"TransactionType": "Payment",
				"Account": "rOld",
				"Destination": "rCollection",
				"Amount": "500",
				"ledger_index": 80000003
			},
			"meta": {"TransactionIndex": 1, "TransactionResult": "tesSUCCESS"}
		},
		{
			"validated": true,
			"tx": {
				"hash": "CC12",
				"TransactionType": "Payment",
				"Account": "rIou",
				"Destination": "rCollection",
				"Amount": "700",
				"ledger_index": 80000004
			},
			"meta": {"TransactionIndex": 2, "TransactionResult": "tesSUCCESS",
				"delivered_amount": {"currency": "USD", "issuer": "rIou", "value": "7"}}
		}
	]}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	txs, err := NewClient(srv.URL, nil).ListTransactions(context.Background(), "rCollection")
	require.NoError(err)
	require.Len(txs, 3)

	// Delivered amount wins over the face value.
	require.Len(txs[0].Transfers, 1)
	require.Equal(int64(1), txs[0].Transfers[0].Amount.Int64())

	// Pre-delivered_amount ledgers fall back to the face value.
	require.Len(txs[1].Transfers, 1)
	require.Equal(int64(500), txs[1].Transfers[0].Amount.Int64())

	// A non-drops delivered amount carries no stakeable transfer, even
	// though the face value was drops.
	require.Empty(txs[2].Transfers)
}

func TestListTransactionsUndecodableMemoData(t *testing.T) {
	require := require.New(t)
	memoType := hex.EncodeToString([]byte(params.LedgerStakeMemoType))

	page := fmt.Sprintf(`{"result": {"status": "success", "transactions": [
		{
			"validated": true,
			"tx": {
				"hash": "EE05",
				"TransactionType": "Payment",
				"Account": "rZ",
				"Destination": "rCollection",
				"Amount": "100",
				"Memos": [{"Memo": {"MemoType": "%s", "MemoData": "zzzz"}}]
			},
			"meta": {"TransactionIndex": 0, "TransactionResult": "tesSUCCESS"}
		}
	]}}`, memoType)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	// A stake-tagged memo with undecodable data still surfaces as a payload
	// so the validator can reject that one transaction instead of the run
	// failing.
	txs, err := NewClient(srv.URL, nil).ListTransactions(context.Background(), "rCollection")
	require.NoError(err)
	require.Len(txs, 1)
	require.Len(txs[0].Payloads, 1)
	require.Nil(txs[0].Payloads[0].Data)
}
