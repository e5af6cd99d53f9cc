package functional

import (
	"net/url"
	"testing"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferToken(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}
	bob := ledger.Account{Owner: "bob"}

	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})

	status, raw := m.Post(t, alice, "/tokens/1/transfer", url.Values{
		"to": {"bob"},
	})
	assert.Equal(t, 201, status)

	var transfer ledger.TransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.Nil(t, transfer.Err)
	assert.Equal(t, int64(1), *transfer.Block)

	_, raw = m.Get(t, "/tokens/1")
	var token ledger.TokenResource
	require.NoError(t, raw.Extract("token", &token))
	assert.Equal(t, bob.String(), token.Owner)
}

func TestTransferTokenSelfTransfer(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})

	status, raw := m.Post(t, alice, "/tokens/1/transfer", url.Values{
		"to": {"alice"},
	})
	assert.Equal(t, 200, status)

	var transfer ledger.TransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.NotNil(t, transfer.Err)
	assert.Equal(t, ledger.ErrInvalidRecipient, transfer.Err.Code)
}

func TestTransferTokenNonExisting(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	status, raw := m.Post(t, alice, "/tokens/42/transfer", url.Values{
		"to": {"bob"},
	})
	assert.Equal(t, 200, status)

	var transfer ledger.TransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.NotNil(t, transfer.Err)
	assert.Equal(t, ledger.ErrNonExistingTokenID, transfer.Err.Code)
}

func TestListAccountTokens(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	for _, id := range []string{"1", "2", "3"} {
		m.Post(t, m.Owner, "/tokens", url.Values{
			"id": {id},
			"to": {"alice"},
		})
	}
	m.Post(t, ledger.Account{Owner: "alice"}, "/tokens/2/transfer",
		url.Values{
			"to": {"bob"},
		})

	_, raw := m.Get(t, "/accounts/alice/tokens")
	var ids []int64
	require.NoError(t, raw.Extract("token_ids", &ids))
	assert.Equal(t, []int64{1, 3}, ids)

	_, raw = m.Get(t, "/accounts/bob/tokens")
	require.NoError(t, raw.Extract("token_ids", &ids))
	assert.Equal(t, []int64{2}, ids)
}
