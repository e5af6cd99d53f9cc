package engine

import (
	"context"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
)

// The engine executes ledger operations. Batches are processed item by item,
// each item in its own DB transaction: an item either fully commits (state
// mutations plus its log record at the next block index) or leaves no trace,
// and one item's failure never affects its siblings. Block indices are only
// consumed by committed items, keeping the log gapless.

// ErrLedgerNotInitialized is returned when the ledger configuration row is
// missing (the `init` action was never run).
var ErrLedgerNotInitialized = errors.Newf(
	"Ledger not initialized.")

// mustLoadLedger loads the singleton ledger, erroring if it does not exist.
func mustLoadLedger(
	ctx context.Context,
) (*model.Ledger, error) {
	l, err := model.LoadLedger(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	} else if l == nil {
		return nil, errors.Trace(ErrLedgerNotInitialized)
	}
	return l, nil
}

// IsAuthorized returns whether spender may move the provided token on behalf
// of owner at time now. Precedence: identity, then token-scoped approval,
// then collection-scoped approval. Expired approvals do not authorize but
// are left in place.
func IsAuthorized(
	ctx context.Context,
	owner ledger.Account,
	spender ledger.Account,
	tokenID int64,
	now int64,
) (bool, error) {
	if owner == spender {
		return true, nil
	}

	a, err := model.LoadApprovalByScopeOwnerSpender(ctx,
		ledger.ApScToken, tokenID, owner, spender)
	if err != nil {
		return false, errors.Trace(err)
	}
	if a != nil && a.Authorizes(now) {
		return true, nil
	}

	a, err = model.LoadApprovalByScopeOwnerSpender(ctx,
		ledger.ApScCollection, 0, owner, spender)
	if err != nil {
		return false, errors.Trace(err)
	}
	if a != nil && a.Authorizes(now) {
		return true, nil
	}

	return false, nil
}

// canMint returns whether the caller holds issuing authority.
func canMint(
	l *model.Ledger,
	caller ledger.Account,
) bool {
	return l.OpenMint || l.OwnerAccount() == caller
}

// executeItem runs one batch item in its own DB transaction. The transaction
// commits only if the item yields a block index: a typed failure or an
// internal error rolls everything back, so a rejected item consumes no block
// index and leaves no log record.
func executeItem(
	ctx context.Context,
	fn func(ctx context.Context) (int64, *ledger.OpError, error),
) (*int64, *ledger.OpError, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	block, opErr, err := fn(ctx)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if opErr != nil {
		return nil, opErr, nil
	}

	db.Commit(ctx)
	return &block, nil, nil
}
