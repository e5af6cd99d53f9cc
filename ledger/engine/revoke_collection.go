package engine

import (
	"context"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// RevokeCollectionItem is one collection-scoped revocation. A nil Spender
// revokes the caller's collection approvals for every spender.
type RevokeCollectionItem struct {
	Spender *ledger.Account
	Memo    string
}

// RevokeCollections removes a batch of collection-scoped approvals granted by
// the caller. A targeted revocation fails if the approval is absent; revoking
// all spenders succeeds even when there is nothing to remove.
func RevokeCollections(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []RevokeCollectionItem,
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

			count, err := model.DeleteCollectionApprovalsByOwner(ctx,
				caller, item.Spender)
			if err != nil {
				return 0, nil, errors.Trace(err)
			} else if count == 0 && item.Spender != nil {
				return 0, ledger.NewOpError(ledger.ErrApprovalDoesNotExist,
					"No collection approval to revoke."), nil
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
				0, model.Amount{}, model.Amount{},
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
