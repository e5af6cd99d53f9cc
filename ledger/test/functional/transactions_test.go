package functional

import (
	"net/url"
	"testing"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactions(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})
	m.Post(t, alice, "/tokens/1/approve", url.Values{
		"spender": {"bob"},
	})
	m.Post(t, ledger.Account{Owner: "bob"}, "/tokens/1/transfer_from",
		url.Values{
			"from": {"alice"},
			"to":   {"bob"},
		})

	status, raw := m.Get(t, "/transactions")
	assert.Equal(t, 200, status)

	var transactions []ledger.TransactionResource
	require.NoError(t, raw.Extract("transactions", &transactions))
	require.Len(t, transactions, 3)

	assert.Equal(t, int64(0), transactions[0].Block)
	assert.Equal(t, ledger.TxKdMint, transactions[0].Kind)
	assert.Equal(t, int64(1), *transactions[0].TokenID)
	assert.Equal(t, "alice", *transactions[0].To)

	assert.Equal(t, int64(1), transactions[1].Block)
	assert.Equal(t, ledger.TxKdApprove, transactions[1].Kind)
	assert.Equal(t, "bob", *transactions[1].Spender)

	assert.Equal(t, int64(2), transactions[2].Block)
	assert.Equal(t, ledger.TxKdTransferFrom, transactions[2].Kind)
	assert.Equal(t, "alice", *transactions[2].From)
	assert.Equal(t, "bob", *transactions[2].To)

	// Range from a starting block.
	_, raw = m.Get(t, "/transactions?start=1")
	require.NoError(t, raw.Extract("transactions", &transactions))
	require.Len(t, transactions, 2)
	assert.Equal(t, int64(1), transactions[0].Block)
	assert.Equal(t, int64(2), transactions[1].Block)

	_, raw = m.Get(t, "/transactions?start=1&limit=1")
	require.NoError(t, raw.Extract("transactions", &transactions))
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(1), transactions[0].Block)
}

func TestListAccountTransactions(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	for _, id := range []string{"1", "2"} {
		m.Post(t, m.Owner, "/tokens", url.Values{
			"id": {id},
			"to": {"alice"},
		})
	}
	m.Post(t, alice, "/tokens/1/transfer", url.Values{
		"to": {"bob"},
	})
	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"3"},
		"to": {"carol"},
	})

	// alice appears in blocks 0, 1 and 2, newest first.
	status, raw := m.Get(t, "/accounts/alice/transactions")
	assert.Equal(t, 200, status)

	var transactions []ledger.TransactionResource
	require.NoError(t, raw.Extract("transactions", &transactions))
	require.Len(t, transactions, 3)
	assert.Equal(t, int64(2), transactions[0].Block)
	assert.Equal(t, int64(1), transactions[1].Block)
	assert.Equal(t, int64(0), transactions[2].Block)

	// Paginate with an exclusive `before` cursor.
	_, raw = m.Get(t, "/accounts/alice/transactions?before=2&limit=1")
	require.NoError(t, raw.Extract("transactions", &transactions))
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(1), transactions[0].Block)

	_, raw = m.Get(t, "/accounts/bob/transactions")
	require.NoError(t, raw.Extract("transactions", &transactions))
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(2), transactions[0].Block)

	_, raw = m.Get(t, "/accounts/mallory/transactions")
	require.NoError(t, raw.Extract("transactions", &transactions))
	assert.Len(t, transactions, 0)
}
