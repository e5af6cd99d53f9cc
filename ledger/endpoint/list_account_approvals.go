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
	// EndPtListAccountApprovals lists the approvals granted by an account.
	EndPtListAccountApprovals EndPtName = "ListAccountApprovals"
)

func init() {
	registrar[EndPtListAccountApprovals] = NewListAccountApprovals
}

// ListAccountApprovals lists the approvals granted by an account, both
// collection-scoped and token-scoped. No authority is required to query
// approvals.
type ListAccountApprovals struct {
	Account ledger.Account
}

// NewListAccountApprovals constructs and initializes the endpoint.
func NewListAccountApprovals(
	r *http.Request,
) (Endpoint, error) {
	return &ListAccountApprovals{}, nil
}

// Validate validates the input parameters.
func (e *ListAccountApprovals) Validate(
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
func (e *ListAccountApprovals) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	approvals, err := model.LoadApprovalListByOwner(ctx, e.Account)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	resources := []ledger.ApprovalResource{}
	for i := range approvals {
		resources = append(resources,
			model.NewApprovalResource(ctx, &approvals[i]))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"approvals": format.JSONPtr(resources),
	}, nil
}
