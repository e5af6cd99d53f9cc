package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/engine"
	"github.com/spolu/tally/ledger/lib/authentication"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtApproveCollection grants a collection-scoped approval.
	EndPtApproveCollection EndPtName = "ApproveCollection"
)

func init() {
	registrar[EndPtApproveCollection] = NewApproveCollection
}

// ApproveCollection grants a spender the right to transfer any token the
// caller holds, optionally until an expiry.
type ApproveCollection struct {
	Caller    ledger.Account
	Spender   ledger.Account
	ExpiresAt *int64
	Memo      string
	Now       int64
}

// NewApproveCollection constructs and initializes the endpoint.
func NewApproveCollection(
	r *http.Request,
) (Endpoint, error) {
	return &ApproveCollection{}, nil
}

// Validate validates the input parameters.
func (e *ApproveCollection) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	caller, err := ValidateCaller(ctx, authentication.Get(ctx).Caller)
	if err != nil {
		return errors.Trace(err)
	}
	e.Caller = *caller

	spender, err := ValidateAccount(ctx, r.PostFormValue("spender"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Spender = *spender

	expiresAt, err := ValidateExpiresAt(ctx, r.PostFormValue("expires_at"))
	if err != nil {
		return errors.Trace(err)
	}
	e.ExpiresAt = expiresAt

	memo, err := ValidateMemo(ctx, r.PostFormValue("memo"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Memo = *memo

	now, err := ValidateTimestamp(ctx,
		r.PostFormValue("timestamp"), time.Now().Unix())
	if err != nil {
		return errors.Trace(err)
	}
	e.Now = *now

	return nil
}

// Execute executes the endpoint.
func (e *ApproveCollection) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.ApproveCollections(ctx, e.Caller, e.Now,
		[]engine.ApproveCollectionItem{
			{Spender: e.Spender, ExpiresAt: e.ExpiresAt, Memo: e.Memo},
		})
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	status := http.StatusCreated
	if results[0].Err != nil {
		status = http.StatusOK
	}

	return ptr.Int(status), &svc.Resp{
		"approval": format.JSONPtr(results[0]),
	}, nil
}
