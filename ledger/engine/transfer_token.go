package engine

import (
	"context"
	"fmt"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// TransferTokenItem is one token to transfer to a recipient.
type TransferTokenItem struct {
	ID   int64
	To   ledger.Account
	Memo string
}

// TransferTokens transfers a batch of unique tokens from their current owner
// to the requested recipients. The caller must be the owner or hold an active
// approval. A successful transfer clears the token-scoped approvals for the
// token.
func TransferTokens(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []TransferTokenItem,
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

			owner := t.OwnerAccount()
			authorized, err := IsAuthorized(ctx, owner, caller, item.ID, now)
			if err != nil {
				return 0, nil, errors.Trace(err)
			} else if !authorized {
				return 0, ledger.NewOpError(ledger.ErrUnauthorized,
					fmt.Sprintf("Not authorized to transfer token: %d.",
						item.ID)), nil
			}

			if item.To == owner {
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

			kind := ledger.TxKdTransfer
			spender := ledger.Account{}
			if caller != owner {
				kind = ledger.TxKdTransferFrom
				spender = caller
			}

			block := l.NextBlock()
			if err := l.Save(ctx); err != nil {
				return 0, nil, errors.Trace(err)
			}

			_, err = model.CreateTransaction(ctx,
				block, kind, now,
				item.ID, model.Amount{}, model.Amount{},
				owner, item.To, spender,
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
