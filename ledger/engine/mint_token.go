package engine

import (
	"context"
	"fmt"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// MintTokenItem is one token to mint: the minter picks the ID.
type MintTokenItem struct {
	ID       int64
	To       ledger.Account
	Metadata model.Metadata
	Memo     string
}

// MintTokens mints a batch of unique tokens to the requested accounts. The
// caller must be the ledger owner unless open minting is configured.
func MintTokens(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []MintTokenItem,
) ([]ledger.MintResult, error) {
	results := make([]ledger.MintResult, len(items))

	for i, item := range items {
		item := item
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
			if l.SupplyCap > 0 && l.TokenCount >= l.SupplyCap {
				return 0, ledger.NewOpError(ledger.ErrSupplyCapReached,
					fmt.Sprintf("The supply cap is reached: %d.",
						l.SupplyCap)), nil
			}

			_, err = model.CreateToken(ctx, item.ID, item.To, item.Metadata)
			if err != nil {
				switch errors.Cause(err).(type) {
				case model.ErrUniqueConstraintViolation:
					return 0, ledger.NewOpError(ledger.ErrAlreadyExists,
						fmt.Sprintf("Token already minted: %d.",
							item.ID)), nil
				}
				return 0, nil, errors.Trace(err)
			}

			block := l.NextBlock()
			l.TokenCount++
			if err := l.Save(ctx); err != nil {
				return 0, nil, errors.Trace(err)
			}

			_, err = model.CreateTransaction(ctx,
				block, ledger.TxKdMint, now,
				item.ID, model.Amount{}, model.Amount{},
				ledger.Account{}, item.To, ledger.Account{},
				item.Memo)
			if err != nil {
				return 0, nil, errors.Trace(err)
			}

			return block, nil, nil
		})
		if err != nil {
			return nil, errors.Trace(err)
		}

		results[i] = ledger.MintResult{Block: block, Err: opErr}
	}

	return results, nil
}
