package endpoint

import (
	"context"
	"net/http"
	"time"

	"goji.io/pat"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/engine"
	"github.com/spolu/tally/ledger/lib/authentication"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtRevokeToken revokes token-scoped approvals.
	EndPtRevokeToken EndPtName = "RevokeToken"
)

func init() {
	registrar[EndPtRevokeToken] = NewRevokeToken
}

// RevokeToken removes the caller's token-scoped approvals for one token,
// either for a single spender or for all of them.
type RevokeToken struct {
	Caller  ledger.Account
	ID      int64
	Spender *ledger.Account
	Memo    string
	Now     int64
}

// NewRevokeToken constructs and initializes the endpoint.
func NewRevokeToken(
	r *http.Request,
) (Endpoint, error) {
	return &RevokeToken{}, nil
}

// Validate validates the input parameters.
func (e *RevokeToken) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	caller, err := ValidateCaller(ctx, authentication.Get(ctx).Caller)
	if err != nil {
		return errors.Trace(err)
	}
	e.Caller = *caller

	id, err := ValidateTokenID(ctx, pat.Param(r, "token"))
	if err != nil {
		return errors.Trace(err)
	}
	e.ID = *id

	// No spender revokes the approvals of every spender.
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
func (e *RevokeToken) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.RevokeTokens(ctx, e.Caller, e.Now,
		[]engine.RevokeTokenItem{
			{ID: e.ID, Spender: e.Spender, Memo: e.Memo},
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
