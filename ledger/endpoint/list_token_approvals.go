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
	// EndPtListTokenApprovals lists the approvals covering a token.
	EndPtListTokenApprovals EndPtName = "ListTokenApprovals"
)

func init() {
	registrar[EndPtListTokenApprovals] = NewListTokenApprovals
}

// ListTokenApprovals lists the token-scoped approvals covering a token. No
// authority is required to query approvals.
type ListTokenApprovals struct {
	ID int64
}

// NewListTokenApprovals constructs and initializes the endpoint.
func NewListTokenApprovals(
	r *http.Request,
) (Endpoint, error) {
	return &ListTokenApprovals{}, nil
}

// Validate validates the input parameters.
func (e *ListTokenApprovals) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	id, err := ValidateTokenID(ctx, pat.Param(r, "token"))
	if err != nil {
		return errors.Trace(err)
	}
	e.ID = *id

	return nil
}

// Execute executes the endpoint.
func (e *ListTokenApprovals) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	token, err := model.LoadTokenByID(ctx, e.ID)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	} else if token == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "token_not_found",
			"The token whose approvals you are trying to list does not "+
				"exist: %d.",
			e.ID,
		))
	}

	approvals, err := model.LoadApprovalListByTokenID(ctx, e.ID)
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
