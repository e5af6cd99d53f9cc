package functional

import (
	"math/big"
	"net/url"
	"testing"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFungibleMintAndTransfer(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{Fee: 10})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	status, raw := m.Post(t, m.Owner, "/mints", url.Values{
		"to":     {"alice"},
		"amount": {"1000"},
	})
	assert.Equal(t, 201, status)

	var mint ledger.FungibleMintResult
	require.NoError(t, raw.Extract("mint", &mint))
	require.Nil(t, mint.Err)
	assert.Equal(t, big.NewInt(1000), mint.NewBalance)

	status, raw = m.Post(t, alice, "/transfers", url.Values{
		"to":     {"bob"},
		"amount": {"100"},
	})
	assert.Equal(t, 201, status)

	var transfer ledger.FungibleTransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.Nil(t, transfer.Err)

	_, raw = m.Get(t, "/accounts/alice/balance")
	var balance ledger.BalanceResource
	require.NoError(t, raw.Extract("balance", &balance))
	assert.Equal(t, big.NewInt(890), balance.Value)

	_, raw = m.Get(t, "/accounts/bob/balance")
	require.NoError(t, raw.Extract("balance", &balance))
	assert.Equal(t, big.NewInt(100), balance.Value)

	// The fee was burned from the total supply.
	_, raw = m.Get(t, "/ledger")
	var info ledger.LedgerResource
	require.NoError(t, raw.Extract("ledger", &info))
	assert.Equal(t, big.NewInt(990), info.TotalSupply)
}

func TestFungibleTransferInsufficientBalance(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{Fee: 10})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	m.Post(t, m.Owner, "/mints", url.Values{
		"to":     {"alice"},
		"amount": {"105"},
	})

	status, raw := m.Post(t, alice, "/transfers", url.Values{
		"to":     {"bob"},
		"amount": {"100"},
	})
	assert.Equal(t, 200, status)

	var transfer ledger.FungibleTransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.NotNil(t, transfer.Err)
	assert.Equal(t, ledger.ErrInsufficientBalance, transfer.Err.Code)

	_, raw = m.Get(t, "/accounts/alice/balance")
	var balance ledger.BalanceResource
	require.NoError(t, raw.Extract("balance", &balance))
	assert.Equal(t, big.NewInt(105), balance.Value)
}

func TestFungibleMintUnauthorized(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	mallory := ledger.Account{Owner: "mallory"}

	for i := 0; i < 2; i++ {
		status, raw := m.Post(t, mallory, "/mints", url.Values{
			"to":     {"x"},
			"amount": {"500"},
		})
		assert.Equal(t, 200, status)

		var mint ledger.FungibleMintResult
		require.NoError(t, raw.Extract("mint", &mint))
		require.NotNil(t, mint.Err)
		assert.Equal(t, ledger.ErrUnauthorized, mint.Err.Code)
	}

	_, raw := m.Get(t, "/accounts/x/balance")
	var balance ledger.BalanceResource
	require.NoError(t, raw.Extract("balance", &balance))
	assert.Equal(t, big.NewInt(0), balance.Value)
}

func TestRetrieveLedger(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{Fee: 10, SupplyCap: 50})
	defer m.Close()

	status, raw := m.Get(t, "/ledger")
	assert.Equal(t, 200, status)

	var info ledger.LedgerResource
	require.NoError(t, raw.Extract("ledger", &info))
	assert.Equal(t, "Test Ledger", info.Name)
	assert.Equal(t, "TST", info.Symbol)
	assert.Equal(t, int8(2), info.Decimals)
	assert.Equal(t, big.NewInt(10), info.Fee)
	assert.Equal(t, int64(50), *info.SupplyCap)
	assert.Equal(t, m.Owner.String(), info.Owner)
}
