package engine

import (
	"context"
	"math/big"
	"testing"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	_ "github.com/spolu/tally/ledger/model/schemas"
	"github.com/spolu/tally/lib/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger(
	t *testing.T,
	openMint bool,
	supplyCap int64,
	fee int64,
) (context.Context, ledger.Account) {
	ctx := context.Background()

	ledgerDB, err := db.NewSqlite3DBInMemory(ctx)
	require.NoError(t, err)
	err = db.CreateDBTables(ctx, "ledger", ledgerDB)
	require.NoError(t, err)
	ctx = db.WithDB(ctx, ledgerDB)

	owner := ledger.Account{Owner: "issuer"}

	var f model.Amount
	(*big.Int)(&f).SetInt64(fee)

	_, err = model.CreateLedger(ctx,
		"Test Ledger", "TST", "", 2, f, supplyCap, openMint, owner)
	require.NoError(t, err)

	return ctx, owner
}

func mustMintToken(
	t *testing.T,
	ctx context.Context,
	owner ledger.Account,
	id int64,
	to ledger.Account,
) int64 {
	results, err := MintTokens(ctx, owner, 0, []MintTokenItem{
		{ID: id, To: to},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)
	return *results[0].Block
}

func TestMintTokenSimple(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	results, err := MintTokens(ctx, owner, 0, []MintTokenItem{
		{ID: 1, To: a, Metadata: model.Metadata{
			"name": ledger.TextValue("First"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
	assert.Equal(t, int64(0), *results[0].Block)

	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, a, token.OwnerAccount())

	l, err := model.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.TokenCount)
	assert.Equal(t, int64(1), l.TxCursor)
}

func TestMintTokenUnauthorized(
	t *testing.T,
) {
	ctx, _ := setupLedger(t, false, 0, 0)

	mallory := ledger.Account{Owner: "mallory"}
	results, err := MintTokens(ctx, mallory, 0, []MintTokenItem{
		{ID: 1, To: mallory},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrUnauthorized, results[0].Err.Code)

	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestMintTokenOpenMint(
	t *testing.T,
) {
	ctx, _ := setupLedger(t, true, 0, 0)

	anyone := ledger.Account{Owner: "anyone"}
	results, err := MintTokens(ctx, anyone, 0, []MintTokenItem{
		{ID: 1, To: anyone},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)
}

func TestMintTokenAlreadyExists(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := MintTokens(ctx, owner, 0, []MintTokenItem{
		{ID: 1, To: a},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrAlreadyExists, results[0].Err.Code)

	// The original owner is untouched and no block was consumed.
	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, a, token.OwnerAccount())

	l, err := model.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.TxCursor)
}

func TestMintTokenSupplyCapReached(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 1, 0)

	a := ledger.Account{Owner: "alice"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := MintTokens(ctx, owner, 0, []MintTokenItem{
		{ID: 2, To: a},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrSupplyCapReached, results[0].Err.Code)
}

func TestMintTokenBatchIndependence(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	mustMintToken(t, ctx, owner, 1, a)

	// Middle item fails with AlreadyExists, siblings succeed and block
	// indices stay gapless.
	results, err := MintTokens(ctx, owner, 0, []MintTokenItem{
		{ID: 2, To: a},
		{ID: 1, To: a},
		{ID: 3, To: a},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Nil(t, results[0].Err)
	require.NotNil(t, results[1].Err)
	require.Nil(t, results[2].Err)
	assert.Equal(t, int64(1), *results[0].Block)
	assert.Equal(t, int64(2), *results[2].Block)

	count, err := model.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestTransferTokenSimple(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := TransferTokens(ctx, a, 0, []TransferTokenItem{
		{ID: 1, To: b},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)
	assert.Equal(t, int64(1), *results[0].Block)

	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, b, token.OwnerAccount())
}

func TestTransferTokenNonExisting(
	t *testing.T,
) {
	ctx, _ := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	results, err := TransferTokens(ctx, a, 0, []TransferTokenItem{
		{ID: 42, To: a},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrNonExistingTokenID, results[0].Err.Code)
}

func TestTransferTokenUnauthorized(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	mallory := ledger.Account{Owner: "mallory"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := TransferTokens(ctx, mallory, 0, []TransferTokenItem{
		{ID: 1, To: mallory},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrUnauthorized, results[0].Err.Code)

	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, a, token.OwnerAccount())
}

func TestTransferTokenSelfTransfer(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := TransferTokens(ctx, a, 0, []TransferTokenItem{
		{ID: 1, To: a},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrInvalidRecipient, results[0].Err.Code)

	// Neither the token nor the log moved.
	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, a, token.OwnerAccount())

	count, err := model.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTransferTokenSubaccountsDistinct(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	sub := make([]byte, ledger.SubaccountLength)
	sub[31] = 0x01
	a := ledger.NewAccount("alice", nil)
	aSub := ledger.NewAccount("alice", sub)

	mustMintToken(t, ctx, owner, 1, a)

	// Same owner, different subaccount, is a distinct account.
	results, err := TransferTokens(ctx, a, 0, []TransferTokenItem{
		{ID: 1, To: aSub},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)

	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, aSub, token.OwnerAccount())
}

func TestTransferFromApprovalCleared(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	c := ledger.Account{Owner: "carol"}
	mustMintToken(t, ctx, owner, 1, a)

	approveResults, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b},
	})
	require.NoError(t, err)
	require.Nil(t, approveResults[0].Err)

	results, err := TransferTokensFrom(ctx, b, 0, []TransferTokenFromItem{
		{ID: 1, From: a, To: c},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)

	token, err := model.LoadTokenByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, c, token.OwnerAccount())

	// The token-scoped approval was cleared by the transfer.
	authorized, err := IsAuthorized(ctx, c, b, 1, 0)
	require.NoError(t, err)
	assert.False(t, authorized)
	authorized, err = IsAuthorized(ctx, a, b, 1, 0)
	require.NoError(t, err)
	assert.False(t, authorized)
}

func TestTransferFromRequiresOwnerMatch(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	c := ledger.Account{Owner: "carol"}
	mustMintToken(t, ctx, owner, 1, a)

	approveResults, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b},
	})
	require.NoError(t, err)
	require.Nil(t, approveResults[0].Err)

	// The named owner does not hold the token.
	results, err := TransferTokensFrom(ctx, b, 0, []TransferTokenFromItem{
		{ID: 1, From: c, To: b},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrUnauthorized, results[0].Err.Code)
}

func TestApprovalExpiry(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	expires := int64(100)
	approveResults, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b, ExpiresAt: &expires},
	})
	require.NoError(t, err)
	require.Nil(t, approveResults[0].Err)

	authorized, err := IsAuthorized(ctx, a, b, 1, 99)
	require.NoError(t, err)
	assert.True(t, authorized)

	// At and past expiry the approval no longer authorizes but is still
	// stored.
	authorized, err = IsAuthorized(ctx, a, b, 1, 100)
	require.NoError(t, err)
	assert.False(t, authorized)

	stored, err := model.LoadApprovalByScopeOwnerSpender(ctx,
		ledger.ApScToken, 1, a, b)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestApprovalPrecedence(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	expired := int64(10)
	approveResults, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b, ExpiresAt: &expired},
	})
	require.NoError(t, err)
	require.Nil(t, approveResults[0].Err)

	collectionResults, err := ApproveCollections(ctx, a, 0,
		[]ApproveCollectionItem{
			{Spender: b},
		})
	require.NoError(t, err)
	require.Nil(t, collectionResults[0].Err)

	// The token approval is expired but the collection one still
	// authorizes.
	authorized, err := IsAuthorized(ctx, a, b, 1, 50)
	require.NoError(t, err)
	assert.True(t, authorized)

	// Revoking the token-scoped approval leaves the collection-wide one in
	// effect.
	revokeResults, err := RevokeTokens(ctx, a, 50, []RevokeTokenItem{
		{ID: 1, Spender: &b},
	})
	require.NoError(t, err)
	require.Nil(t, revokeResults[0].Err)

	authorized, err = IsAuthorized(ctx, a, b, 1, 50)
	require.NoError(t, err)
	assert.True(t, authorized)
}

func TestApproveTokenNotOwner(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := ApproveTokens(ctx, b, 0, []ApproveTokenItem{
		{ID: 1, Spender: b},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrUnauthorized, results[0].Err.Code)
}

func TestReApprovalOverwritesExpiry(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	expired := int64(10)
	_, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b, ExpiresAt: &expired},
	})
	require.NoError(t, err)

	_, err = ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b},
	})
	require.NoError(t, err)

	// The re-approval lifted the expiry.
	authorized, err := IsAuthorized(ctx, a, b, 1, 1000)
	require.NoError(t, err)
	assert.True(t, authorized)
}

func TestRevokeTokenNoApproval(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	results, err := RevokeTokens(ctx, a, 0, []RevokeTokenItem{
		{ID: 1, Spender: &b},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrApprovalDoesNotExist, results[0].Err.Code)
}

func TestRevokeTokenAllSpenders(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	c := ledger.Account{Owner: "carol"}
	mustMintToken(t, ctx, owner, 1, a)

	_, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b},
		{ID: 1, Spender: c},
	})
	require.NoError(t, err)

	// No spender specified: revoke them all.
	results, err := RevokeTokens(ctx, a, 0, []RevokeTokenItem{
		{ID: 1},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)

	for _, spender := range []ledger.Account{b, c} {
		authorized, err := IsAuthorized(ctx, a, spender, 1, 0)
		require.NoError(t, err)
		assert.False(t, authorized)
	}
}

func TestRevokeCollection(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	mustMintToken(t, ctx, owner, 1, a)

	_, err := ApproveCollections(ctx, a, 0, []ApproveCollectionItem{
		{Spender: b},
	})
	require.NoError(t, err)

	results, err := RevokeCollections(ctx, a, 0, []RevokeCollectionItem{
		{Spender: &b},
	})
	require.NoError(t, err)
	require.Nil(t, results[0].Err)

	authorized, err := IsAuthorized(ctx, a, b, 1, 0)
	require.NoError(t, err)
	assert.False(t, authorized)

	// Revoking again fails.
	results, err = RevokeCollections(ctx, a, 0, []RevokeCollectionItem{
		{Spender: &b},
	})
	require.NoError(t, err)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ledger.ErrApprovalDoesNotExist, results[0].Err.Code)
}

func TestLogMonotonicity(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 0)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}

	blocks := []int64{}
	blocks = append(blocks, mustMintToken(t, ctx, owner, 1, a))
	blocks = append(blocks, mustMintToken(t, ctx, owner, 2, a))

	approveResults, err := ApproveTokens(ctx, a, 0, []ApproveTokenItem{
		{ID: 1, Spender: b},
	})
	require.NoError(t, err)
	require.Nil(t, approveResults[0].Err)
	blocks = append(blocks, *approveResults[0].Block)

	transferResults, err := TransferTokens(ctx, a, 0, []TransferTokenItem{
		{ID: 2, To: b},
	})
	require.NoError(t, err)
	require.Nil(t, transferResults[0].Err)
	blocks = append(blocks, *transferResults[0].Block)

	for i, block := range blocks {
		assert.Equal(t, int64(i), block)
	}

	transactions, err := model.LoadTransactionList(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, transactions, len(blocks))
	for i, tx := range transactions {
		assert.Equal(t, int64(i), tx.Block)
	}
}

func TestFungibleTransferWithFee(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 10)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}

	mintResult, err := Mint(ctx, owner, 0, a, big.NewInt(1000), "")
	require.NoError(t, err)
	require.Nil(t, mintResult.Err)
	assert.Equal(t, big.NewInt(1000), mintResult.NewBalance)

	result, err := Transfer(ctx, a, 0, b, big.NewInt(100), nil, "")
	require.NoError(t, err)
	require.Nil(t, result.Err)

	srcBalance, err := model.LoadBalanceByHolder(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(890), (*big.Int)(&srcBalance.Value).Int64())

	dstBalance, err := model.LoadBalanceByHolder(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(100), (*big.Int)(&dstBalance.Value).Int64())

	// The fee is burned from the total supply.
	l, err := model.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(990), (*big.Int)(&l.TotalSupply).Int64())
}

func TestFungibleTransferExplicitFee(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 10)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}

	_, err := Mint(ctx, owner, 0, a, big.NewInt(1000), "")
	require.NoError(t, err)

	// An explicit fee overrides the configured one.
	result, err := Transfer(ctx, a, 0, b, big.NewInt(100), big.NewInt(25), "")
	require.NoError(t, err)
	require.Nil(t, result.Err)

	srcBalance, err := model.LoadBalanceByHolder(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(875), (*big.Int)(&srcBalance.Value).Int64())

	l, err := model.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(975), (*big.Int)(&l.TotalSupply).Int64())
}

func TestFungibleTransferZeroDebitNoBalance(
	t *testing.T,
) {
	ctx, _ := setupLedger(t, false, 0, 10)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}

	// A zero debit does not exceed the zero balance of an account that has
	// no balance row.
	result, err := Transfer(ctx, a, 0, b, big.NewInt(0), big.NewInt(0), "")
	require.NoError(t, err)
	require.Nil(t, result.Err)
	assert.Equal(t, int64(0), *result.Block)

	// Without an explicit fee the configured fee applies and is not covered.
	result, err = Transfer(ctx, a, 0, b, big.NewInt(0), nil, "")
	require.NoError(t, err)
	require.NotNil(t, result.Err)
	assert.Equal(t, ledger.ErrInsufficientBalance, result.Err.Code)
}

func TestFungibleTransferInsufficientBalance(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 10)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}

	mintResult, err := Mint(ctx, owner, 0, a, big.NewInt(105), "")
	require.NoError(t, err)
	require.Nil(t, mintResult.Err)

	// 105 does not cover 100 plus the 10 fee.
	result, err := Transfer(ctx, a, 0, b, big.NewInt(100), nil, "")
	require.NoError(t, err)
	require.NotNil(t, result.Err)
	assert.Equal(t, ledger.ErrInsufficientBalance, result.Err.Code)

	srcBalance, err := model.LoadBalanceByHolder(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(105), (*big.Int)(&srcBalance.Value).Int64())

	l, err := model.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(105), (*big.Int)(&l.TotalSupply).Int64())
}

func TestFungibleMintUnauthorized(
	t *testing.T,
) {
	ctx, _ := setupLedger(t, false, 0, 0)

	mallory := ledger.Account{Owner: "mallory"}
	x := ledger.Account{Owner: "x"}

	for i := 0; i < 2; i++ {
		result, err := Mint(ctx, mallory, 0, x, big.NewInt(500), "")
		require.NoError(t, err)
		require.NotNil(t, result.Err)
		assert.Equal(t, ledger.ErrUnauthorized, result.Err.Code)
	}

	balance, err := model.LoadBalanceByHolder(ctx, x)
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestFungibleConservation(
	t *testing.T,
) {
	ctx, owner := setupLedger(t, false, 0, 7)

	a := ledger.Account{Owner: "alice"}
	b := ledger.Account{Owner: "bob"}
	c := ledger.Account{Owner: "carol"}

	_, err := Mint(ctx, owner, 0, a, big.NewInt(1000), "")
	require.NoError(t, err)
	_, err = Mint(ctx, owner, 0, b, big.NewInt(500), "")
	require.NoError(t, err)

	_, err = Transfer(ctx, a, 0, b, big.NewInt(100), nil, "")
	require.NoError(t, err)
	_, err = Transfer(ctx, b, 0, c, big.NewInt(250), nil, "")
	require.NoError(t, err)

	sum := big.NewInt(0)
	for _, holder := range []ledger.Account{a, b, c} {
		balance, err := model.LoadBalanceByHolder(ctx, holder)
		require.NoError(t, err)
		if balance != nil {
			sum.Add(sum, (*big.Int)(&balance.Value))
		}
	}

	l, err := model.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, sum, (*big.Int)(&l.TotalSupply))
}
