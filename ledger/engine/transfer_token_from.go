package engine

import (
	"context"
	"fmt"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// TransferTokenFromItem is one delegated token transfer.
type TransferTokenFromItem struct {
	ID   int64
	From ledger.Account
	To   ledger.Account
	Memo string
}

// TransferTokensFrom transfers a batch of unique tokens on behalf of their
// owners. Each item requires the named owner to actually hold the token and
// the caller to hold an active approval from that owner (or to be the owner).
func TransferTokensFrom(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []TransferTokenFromItem,
) ([]ledger.TransferResult, error) {
	results := make([]ledger.TransferResult, len(items))

	for i, item := range items {
		item := item
		block, opErr, err := executeItem(ctx, func(
			ctx context.Context,
		) (int64, *ledger.OpError, error) {
			l, err := mustLoadLedger(ctx)
			if err != nil {
				return 0, nil, errors.Trace(err)
			}

			t, err := model.LoadTokenByID(ctx, item.ID)
			if err != nil {
				return 0, nil, errors.Trace(err)
			} else if t == nil {
				return 0, ledger.NewOpError(ledger.ErrNonExistingTokenID,
					fmt.Sprintf("Token does not exist: %d.", item.ID)), nil
			}

			if t.OwnerAccount() != item.From {
				return 0, ledger.NewOpError(ledger.ErrUnauthorized,
					fmt.Sprintf("Account does not own token: %d.",
						item.ID)), nil
			}

			authorized, err := IsAuthorized(ctx,
				item.From, caller, item.ID, now)
			if err != nil {
				return 0, nil, errors.Trace(err)
			} else if !authorized {
				return 0, ledger.NewOpError(ledger.ErrUnauthorized,
					fmt.Sprintf("Not authorized to transfer token: %d.",
						item.ID)), nil
			}

			if item.To == item.From {
				return 0, ledger.NewOpError(ledger.ErrInvalidRecipient,
					"The recipient already owns the token."), nil
			}

			t.SetOwner(item.To)
			if err := t.Save(ctx); err != nil {
				return 0, nil, errors.Trace(err)
			}
			if err := model.DeleteApprovalsByTokenID(ctx, item.ID); err != nil {
				return 0, nil, errors.Trace(err)
			}

			spender := ledger.Account{}
			if caller != item.From {
				spender = caller
			}

			block := l.NextBlock()
			if err := l.Save(ctx); err != nil {
				return 0, nil, errors.Trace(err)
			}

			_, err = model.CreateTransaction(ctx,
				block, ledger.TxKdTransferFrom, now,
				item.ID, model.Amount{}, model.Amount{},
				item.From, item.To, spender,
				item.Memo)
			if err != nil {
				return 0, nil, errors.Trace(err)
			}

			return block, nil, nil
		})
		if err != nil {
			return nil, errors.Trace(err)
		}

		results[i] = ledger.TransferResult{Block: block, Err: opErr}
	}

	return results, nil
}
