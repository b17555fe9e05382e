package bitcoin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentHeight(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/blocks/tip/height", r.URL.Path)
		fmt.Fprint(w, "812345\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	height, err := client.CurrentHeight(context.Background())
	require.NoError(err)
	require.Equal(uint64(812345), height)
}

func TestCurrentHeightBadBody(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not a number")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).CurrentHeight(context.Background())
	require.Error(err)
}

func TestListTransactionsPagination(t *testing.T) {
	require := require.New(t)

	page1 := `[
		{
			"txid": "aa01",
			"status": {"confirmed": true, "block_height": 100, "block_time": 1700000000},
			"vin": [{"prevout": {"scriptpubkey_address": "bc1qsender"}}],
			"vout": [
				{"scriptpubkey": "6a0411223344", "scriptpubkey_type": "op_return", "value": 0},
				{"scriptpubkey": "0014ab", "scriptpubkey_type": "v0_p2wpkh", "scriptpubkey_address": "bc1qcollection", "value": 150000},
				{"scriptpubkey": "0014cd", "scriptpubkey_type": "v0_p2wpkh", "scriptpubkey_address": "bc1qsender", "value": 9000}
			]
		}
	]`
	page2 := `[
		{
			"txid": "bb02",
			"status": {"confirmed": false},
			"vin": [],
			"vout": []
		}
	]`

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/address/bc1qcollection/txs/chain":
			fmt.Fprint(w, page1)
		case "/address/bc1qcollection/txs/chain/aa01":
			fmt.Fprint(w, page2)
		case "/address/bc1qcollection/txs/chain/bb02":
			fmt.Fprint(w, "[]")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", nil)
	txs, err := client.ListTransactions(context.Background(), "bc1qcollection")
	require.NoError(err)
	require.Len(paths, 3) // two data pages plus the terminating empty page
	require.Len(txs, 2)

	tx := txs[0]
	require.Equal("aa01", tx.Hash)
	require.Equal(uint64(100), tx.Height)
	require.True(tx.Confirmed)
	require.Equal("transfer", tx.Type)
	require.Equal("bc1qsender", tx.Sender)
	require.Equal([]string{"bc1qsender"}, tx.Inputs)

	// The op_return output becomes a payload carrying the raw script; the
	// address-bearing outputs become transfers.
	require.Len(tx.Payloads, 1)
	require.Equal([]byte{0x6a, 0x04, 0x11, 0x22, 0x33, 0x44}, tx.Payloads[0].Data)
	require.Len(tx.Transfers, 2)
	require.Equal("bc1qcollection", tx.Transfers[0].Recipient)
	require.Equal(int64(150000), tx.Transfers[0].Amount.Int64())

	require.False(txs[1].Confirmed)
}

func TestListTransactionsHTTPError(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "address not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).ListTransactions(context.Background(), "bc1qnobody")
	require.Error(err)
}
