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
	// EndPtRevokeCollection revokes collection-scoped approvals.
	EndPtRevokeCollection EndPtName = "RevokeCollection"
)

func init() {
	registrar[EndPtRevokeCollection] = NewRevokeCollection
}

// RevokeCollection removes the caller's collection-scoped approvals, either
// for a single spender or for all of them.
type RevokeCollection struct {
	Caller  ledger.Account
	Spender *ledger.Account
	Memo    string
	Now     int64
}

// NewRevokeCollection constructs and initializes the endpoint.
func NewRevokeCollection(
	r *http.Request,
) (Endpoint, error) {
	return &RevokeCollection{}, nil
}

// Validate validates the input parameters.
func (e *RevokeCollection) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	caller, err := ValidateCaller(ctx, authentication.Get(ctx).Caller)
	if err != nil {
		return errors.Trace(err)
	}
	e.Caller = *caller

	if r.PostFormValue("spender") != "" {
		spender, err := ValidateAccount(ctx, r.PostFormValue("spender"))
		if err != nil {
			return errors.Trace(err)
		}
		e.Spender = spender
	}

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
func (e *RevokeCollection) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.RevokeCollections(ctx, e.Caller, e.Now,
		[]engine.RevokeCollectionItem{
			{Spender: e.Spender, Memo: e.Memo},
		})
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	status := http.StatusCreated
	if results[0].Err != nil {
		status = http.StatusOK
	}

	return ptr.Int(status), &svc.Resp{
		"revocation": format.JSONPtr(results[0]),
	}, nil
}
