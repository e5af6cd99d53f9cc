package endpoint

import (
	"context"
	"net/http"

	"goji.io/pat"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtListAccountTransactions lists the transactions of an account.
	EndPtListAccountTransactions EndPtName = "ListAccountTransactions"
)

func init() {
	registrar[EndPtListAccountTransactions] = NewListAccountTransactions
}

// ListAccountTransactions lists the transactions involving an account, newest
// first, paginated with an exclusive block cursor.
type ListAccountTransactions struct {
	Account ledger.Account
	Before  *int64
	Limit   uint
}

// NewListAccountTransactions constructs and initializes the endpoint.
func NewListAccountTransactions(
	r *http.Request,
) (Endpoint, error) {
	return &ListAccountTransactions{}, nil
}

// Validate validates the input parameters.
func (e *ListAccountTransactions) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	account, err := ValidateAccount(ctx, pat.Param(r, "account"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Account = *account

	before, err := ValidateCursor(ctx, r.URL.Query().Get("before"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Before = before

	limit, err := ValidateLimit(ctx, r.URL.Query().Get("limit"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Limit = *limit

	return nil
}

// Execute executes the endpoint.
func (e *ListAccountTransactions) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	transactions, err := model.LoadTransactionListByAccount(ctx,
		e.Account, e.Before, e.Limit)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	resources := []ledger.TransactionResource{}
	for i := range transactions {
		resources = append(resources,
			model.NewTransactionResource(ctx, &transactions[i]))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"transactions": format.JSONPtr(resources),
	}, nil
}
