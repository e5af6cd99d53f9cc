package functional

import (
	"net/url"
	"testing"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveAndTransferFrom(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}
	bob := ledger.Account{Owner: "bob"}
	carol := ledger.Account{Owner: "carol"}

	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})

	status, raw := m.Post(t, alice, "/tokens/1/approve", url.Values{
		"spender": {"bob"},
	})
	assert.Equal(t, 201, status)

	var approval ledger.ApproveResult
	require.NoError(t, raw.Extract("approval", &approval))
	require.Nil(t, approval.Err)
	assert.Equal(t, int64(1), *approval.Block)

	status, raw = m.Post(t, bob, "/tokens/1/transfer_from", url.Values{
		"from": {"alice"},
		"to":   {"carol"},
	})
	assert.Equal(t, 201, status)

	var transfer ledger.TransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.Nil(t, transfer.Err)
	assert.Equal(t, int64(2), *transfer.Block)

	_, raw = m.Get(t, "/tokens/1")
	var token ledger.TokenResource
	require.NoError(t, raw.Extract("token", &token))
	assert.Equal(t, carol.String(), token.Owner)

	// The approval was cleared by the transfer: bob cannot move the token
	// again, from carol or anyone else.
	status, raw = m.Post(t, bob, "/tokens/1/transfer_from", url.Values{
		"from": {"carol"},
		"to":   {"bob"},
	})
	assert.Equal(t, 200, status)
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.NotNil(t, transfer.Err)
	assert.Equal(t, ledger.ErrUnauthorized, transfer.Err.Code)
}

func TestApproveTokenNotOwner(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	bob := ledger.Account{Owner: "bob"}

	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})

	status, raw := m.Post(t, bob, "/tokens/1/approve", url.Values{
		"spender": {"bob"},
	})
	assert.Equal(t, 200, status)

	var approval ledger.ApproveResult
	require.NoError(t, raw.Extract("approval", &approval))
	require.NotNil(t, approval.Err)
	assert.Equal(t, ledger.ErrUnauthorized, approval.Err.Code)
}

func TestCollectionApproval(
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
	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"2"},
		"to": {"alice"},
	})

	status, raw := m.Post(t, alice, "/collection/approve", url.Values{
		"spender": {"bob"},
	})
	assert.Equal(t, 201, status)

	// The collection approval covers both tokens.
	for _, id := range []string{"1", "2"} {
		status, raw = m.Post(t, bob, "/tokens/"+id+"/transfer_from",
			url.Values{
				"from": {"alice"},
				"to":   {"bob"},
			})
		assert.Equal(t, 201, status)

		var transfer ledger.TransferResult
		require.NoError(t, raw.Extract("transfer", &transfer))
		require.Nil(t, transfer.Err)
	}
}

func TestListApprovals(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}
	bob := ledger.Account{Owner: "bob"}
	carol := ledger.Account{Owner: "carol"}

	m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})
	m.Post(t, alice, "/tokens/1/approve", url.Values{
		"spender": {"bob"},
	})
	m.Post(t, alice, "/collection/approve", url.Values{
		"spender":    {"carol"},
		"expires_at": {"3000000000"},
	})

	status, raw := m.Get(t, "/tokens/1/approvals")
	assert.Equal(t, 200, status)

	var approvals []ledger.ApprovalResource
	require.NoError(t, raw.Extract("approvals", &approvals))
	require.Len(t, approvals, 1)
	assert.Equal(t, ledger.ApScToken, approvals[0].Scope)
	require.NotNil(t, approvals[0].TokenID)
	assert.Equal(t, int64(1), *approvals[0].TokenID)
	assert.Equal(t, alice.String(), approvals[0].Owner)
	assert.Equal(t, bob.String(), approvals[0].Spender)
	assert.Nil(t, approvals[0].ExpiresAt)

	status, raw = m.Get(t, "/accounts/alice/approvals")
	assert.Equal(t, 200, status)

	// Collection-scoped approvals are listed first. Reset the slice so that
	// json.Unmarshal does not merge into elements from the previous extract.
	approvals = nil
	require.NoError(t, raw.Extract("approvals", &approvals))
	require.Len(t, approvals, 2)
	assert.Equal(t, ledger.ApScCollection, approvals[0].Scope)
	assert.Nil(t, approvals[0].TokenID)
	assert.Equal(t, carol.String(), approvals[0].Spender)
	require.NotNil(t, approvals[0].ExpiresAt)
	assert.Equal(t, int64(3000000000), *approvals[0].ExpiresAt)
	assert.Equal(t, ledger.ApScToken, approvals[1].Scope)
	assert.Equal(t, bob.String(), approvals[1].Spender)

	status, _ = m.Get(t, "/tokens/9/approvals")
	assert.Equal(t, 404, status)

	// Transferring the token clears its token-scoped approvals.
	m.Post(t, alice, "/tokens/1/transfer", url.Values{
		"to": {"bob"},
	})
	status, raw = m.Get(t, "/tokens/1/approvals")
	assert.Equal(t, 200, status)
	require.NoError(t, raw.Extract("approvals", &approvals))
	assert.Len(t, approvals, 0)
}

func TestRevokeApproval(
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
	m.Post(t, alice, "/tokens/1/approve", url.Values{
		"spender": {"bob"},
	})

	status, raw := m.Post(t, alice, "/tokens/1/revoke", url.Values{
		"spender": {"bob"},
	})
	assert.Equal(t, 201, status)

	var revocation ledger.RevokeResult
	require.NoError(t, raw.Extract("revocation", &revocation))
	require.Nil(t, revocation.Err)

	status, raw = m.Post(t, bob, "/tokens/1/transfer_from", url.Values{
		"from": {"alice"},
		"to":   {"bob"},
	})
	assert.Equal(t, 200, status)

	var transfer ledger.TransferResult
	require.NoError(t, raw.Extract("transfer", &transfer))
	require.NotNil(t, transfer.Err)
	assert.Equal(t, ledger.ErrUnauthorized, transfer.Err.Code)

	// Revoking again yields ApprovalDoesNotExist.
	status, raw = m.Post(t, alice, "/tokens/1/revoke", url.Values{
		"spender": {"bob"},
	})
	assert.Equal(t, 200, status)
	require.NoError(t, raw.Extract("revocation", &revocation))
	require.NotNil(t, revocation.Err)
	assert.Equal(t, ledger.ErrApprovalDoesNotExist, revocation.Err.Code)
}
