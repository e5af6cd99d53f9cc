package engine

import (
	"context"
	"fmt"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// ApproveTokenItem is one token-scoped approval grant.
type ApproveTokenItem struct {
	ID        int64
	Spender   ledger.Account
	ExpiresAt *int64
	Memo      string
}

// ApproveTokens grants a batch of token-scoped approvals. The caller must own
// each token. Re-approving an existing (token, spender) pair overwrites its
// expiry.
func ApproveTokens(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []ApproveTokenItem,
) ([]ledger.ApproveResult, error) {
	results := make([]ledger.ApproveResult, len(items))

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
					fmt.Sprintf("Only the owner can approve token: %d.",
						item.ID)), nil
			}

			a, err := model.LoadApprovalByScopeOwnerSpender(ctx,
				ledger.ApScToken, item.ID, caller, item.Spender)
			if err != nil {
				return 0, nil, errors.Trace(err)
			}
			if a != nil {
				a.ExpiresAt = item.ExpiresAt
				if err := a.Save(ctx); err != nil {
					return 0, nil, errors.Trace(err)
				}
			} else {
				_, err := model.CreateApproval(ctx,
					ledger.ApScToken, item.ID, caller, item.Spender,
					item.ExpiresAt)
				if err != nil {
					return 0, nil, errors.Trace(err)
				}
			}

			block := l.NextBlock()
			if err := l.Save(ctx); err != nil {
				return 0, nil, errors.Trace(err)
			}

			_, err = model.CreateTransaction(ctx,
				block, ledger.TxKdApprove, now,
				item.ID, model.Amount{}, model.Amount{},
				caller, ledger.Account{}, item.Spender,
				item.Memo)
			if err != nil {
				return 0, nil, errors.Trace(err)
			}

			return block, nil, nil
		})
		if err != nil {
			return nil, errors.Trace(err)
		}

		results[i] = ledger.ApproveResult{Block: block, Err: opErr}
	}

	return results, nil
}
