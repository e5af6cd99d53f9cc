package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// Transfer moves a fungible amount from the caller to the recipient. The fee,
// defaulting to the configured flat fee when nil, is debited from the caller
// on top of the amount and burned from the total supply.
func Transfer(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	to ledger.Account,
	amount *big.Int,
	fee *big.Int,
	memo string,
) (ledger.FungibleTransferResult, error) {
	block, opErr, err := executeItem(ctx, func(
		ctx context.Context,
	) (int64, *ledger.OpError, error) {
		l, err := mustLoadLedger(ctx)
		if err != nil {
			return 0, nil, errors.Trace(err)
		}
		if fee == nil {
			fee = (*big.Int)(&l.Fee)
		}

		// A caller without a balance row holds a zero balance, which still
		// covers a zero debit.
		src, err := model.LoadOrCreateBalanceByHolder(ctx, caller)
		if err != nil {
			return 0, nil, errors.Trace(err)
		}

		debit := new(big.Int).Add(amount, fee)
		if (*big.Int)(&src.Value).Cmp(debit) < 0 {
			return 0, ledger.NewOpError(ledger.ErrInsufficientBalance,
				fmt.Sprintf("Balance %s does not cover amount %s plus "+
					"fee %s.", (*big.Int)(&src.Value).String(),
					amount.String(), fee.String())), nil
		}

		(*big.Int)(&src.Value).Sub((*big.Int)(&src.Value), debit)
		if err := src.Save(ctx); err != nil {
			return 0, nil, errors.Trace(err)
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

		// The fee is burned, not collected.
		(*big.Int)(&l.TotalSupply).Sub((*big.Int)(&l.TotalSupply), fee)

		block := l.NextBlock()
		if err := l.Save(ctx); err != nil {
			return 0, nil, errors.Trace(err)
		}

		var amt model.Amount
		(*big.Int)(&amt).Set(amount)
		var f model.Amount
		(*big.Int)(&f).Set(fee)

		_, err = model.CreateTransaction(ctx,
			block, ledger.TxKdTransfer, now,
			0, amt, f,
			caller, to, ledger.Account{},
			memo)
		if err != nil {
			return 0, nil, errors.Trace(err)
		}

		return block, nil, nil
	})
	if err != nil {
		return ledger.FungibleTransferResult{}, errors.Trace(err)
	}

	return ledger.FungibleTransferResult{Block: block, Err: opErr}, nil
}
