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
	// EndPtListAccountTokens lists the token ids held by an account.
	EndPtListAccountTokens EndPtName = "ListAccountTokens"
)

func init() {
	registrar[EndPtListAccountTokens] = NewListAccountTokens
}

// ListAccountTokens lists the ids of the tokens held by an account in
// ascending order, paginated with an exclusive id cursor.
type ListAccountTokens struct {
	Account ledger.Account
	Cursor  *int64
	Limit   uint
}

// NewListAccountTokens constructs and initializes the endpoint.
func NewListAccountTokens(
	r *http.Request,
) (Endpoint, error) {
	return &ListAccountTokens{}, nil
}

// Validate validates the input parameters.
func (e *ListAccountTokens) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	account, err := ValidateAccount(ctx, pat.Param(r, "account"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Account = *account

	cursor, err := ValidateCursor(ctx, r.URL.Query().Get("cursor"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Cursor = cursor

	limit, err := ValidateLimit(ctx, r.URL.Query().Get("limit"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Limit = *limit

	return nil
}

// Execute executes the endpoint.
func (e *ListAccountTokens) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	ids, err := model.LoadTokenIDListByOwner(ctx,
		e.Account, e.Cursor, e.Limit)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"token_ids": format.JSONPtr(ids),
	}, nil
}
