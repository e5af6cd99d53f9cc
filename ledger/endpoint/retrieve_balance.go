package endpoint

import (
	"context"
	"math/big"
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
	// EndPtRetrieveBalance retrieves the fungible balance of an account.
	EndPtRetrieveBalance EndPtName = "RetrieveBalance"
)

func init() {
	registrar[EndPtRetrieveBalance] = NewRetrieveBalance
}

// RetrieveBalance retrieves the fungible balance of an account. Accounts
// without a stored balance hold zero.
type RetrieveBalance struct {
	Account ledger.Account
}

// NewRetrieveBalance constructs and initializes the endpoint.
func NewRetrieveBalance(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveBalance{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveBalance) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	account, err := ValidateAccount(ctx, pat.Param(r, "account"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Account = *account

	return nil
}

// Execute executes the endpoint.
func (e *RetrieveBalance) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	balance, err := model.LoadBalanceByHolder(ctx, e.Account)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	resource := ledger.BalanceResource{
		Holder: e.Account.String(),
		Value:  new(big.Int),
	}
	if balance != nil {
		resource = model.NewBalanceResource(ctx, balance)
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"balance": format.JSONPtr(resource),
	}, nil
}
