package engine

import (
	"context"
	"math/big"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// Mint issues a fungible amount to the recipient and grows the total supply
// accordingly. No fee applies. The caller must be the ledger owner unless
// open minting is configured.
func Mint(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	to ledger.Account,
	amount *big.Int,
	memo string,
) (ledger.FungibleMintResult, error) {
	var newBalance big.Int

	block, opErr, err := executeItem(ctx, func(
		ctx context.Context,
	) (int64, *ledger.OpError, error) {
		l, err := mustLoadLedger(ctx)
		if err != nil {
			return 0, nil, errors.Trace(err)
		}

		if !canMint(l, caller) {
			return 0, ledger.NewOpError(ledger.ErrUnauthorized,
				"Only the ledger owner can mint."), nil
		}

		dst, err := model.LoadOrCreateBalanceByHolder(ctx, to)
		if err != nil {
			return 0, nil, errors.Trace(err)
		}
		(*big.Int)(&dst.Value).Add((*big.Int)(&dst.Value), amount)
		if (*big.Int)(&dst.Value).Cmp(model.MaxLedgerAmount) >= 0 {
			return 0, nil, errors.Trace(errors.Newf(
				"Resulting balance overflows: %s.",
				(*big.Int)(&dst.Value).String()))
		}
		if err := dst.Save(ctx); err != nil {
			return 0, nil, errors.Trace(err)
		}
		newBalance.Set((*big.Int)(&dst.Value))

		(*big.Int)(&l.TotalSupply).Add((*big.Int)(&l.TotalSupply), amount)

		block := l.NextBlock()
		if err := l.Save(ctx); err != nil {
			return 0, nil, errors.Trace(err)
		}

		var amt model.Amount
		(*big.Int)(&amt).Set(amount)

		_, err = model.CreateTransaction(ctx,
			block, ledger.TxKdMint, now,
			0, amt, model.Amount{},
			ledger.Account{}, to, ledger.Account{},
			memo)
		if err != nil {
			return 0, nil, errors.Trace(err)
		}

		return block, nil, nil
	})
	if err != nil {
		return ledger.FungibleMintResult{}, errors.Trace(err)
	}

	result := ledger.FungibleMintResult{Block: block, Err: opErr}
	if opErr == nil {
		result.NewBalance = &newBalance
	}

	return result, nil
}
