package engine

import (
	"context"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
)

// ApproveCollectionItem is one collection-scoped approval grant.
type ApproveCollectionItem struct {
	Spender   ledger.Account
	ExpiresAt *int64
	Memo      string
}

// ApproveCollections grants a batch of collection-scoped approvals covering
// every token the caller holds, now or later, until expiry or revocation.
func ApproveCollections(
	ctx context.Context,
	caller ledger.Account,
	now int64,
	items []ApproveCollectionItem,
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

			a, err := model.LoadApprovalByScopeOwnerSpender(ctx,
				ledger.ApScCollection, 0, caller, item.Spender)
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
					ledger.ApScCollection, 0, caller, item.Spender,
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
				0, model.Amount{}, model.Amount{},
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
