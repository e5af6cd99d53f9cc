package engine

import (
	"context"
	"fmt"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// RevokeTokenItem is one token-scoped revocation. A nil Spender revokes the
// approvals granted to every spender for the token.
type RevokeTokenItem struct {
	ID      int64
	Spender *ledger.Account
	Memo    string
}

// RevokeTokens removes a batch of token-scoped approvals. The caller must own
// each token. A targeted revocation fails if the approval is absent; revoking
// all spenders succeeds even when there is nothing to remove.
func RevokeTokens(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []RevokeTokenItem,
) ([]ledger.RevokeResult, error) {
	results := make([]ledger.RevokeResult, len(items))

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

			if t.OwnerAccount() != caller {
				return 0, ledger.NewOpError(ledger.ErrUnauthorized,
					fmt.Sprintf("Only the owner can revoke token: %d.",
						item.ID)), nil
			}

			count, err := model.DeleteTokenApprovalsByOwner(ctx,
				item.ID, caller, item.Spender)
			if err != nil {
				return 0, nil, errors.Trace(err)
			} else if count == 0 && item.Spender != nil {
				return 0, ledger.NewOpError(ledger.ErrApprovalDoesNotExist,
					fmt.Sprintf("No approval to revoke for token: %d.",
						item.ID)), nil
			}

			spender := ledger.Account{}
			if item.Spender != nil {
				spender = *item.Spender
			}

			block := l.NextBlock()
			if err := l.Save(ctx); err != nil {
				return 0, nil, errors.Trace(err)
			}

			_, err = model.CreateTransaction(ctx,
				block, ledger.TxKdRevoke, now,
				item.ID, model.Amount{}, model.Amount{},
				caller, ledger.Account{}, spender,
				item.Memo)
			if err != nil {
				return 0, nil, errors.Trace(err)
			}

			return block, nil, nil
		})
		if err != nil {
			return nil, errors.Trace(err)
		}

		results[i] = ledger.RevokeResult{Block: block, Err: opErr}
	}

	return results, nil
}
