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
	// EndPtApproveToken grants a token-scoped approval.
	EndPtApproveToken EndPtName = "ApproveToken"
)

func init() {
	registrar[EndPtApproveToken] = NewApproveToken
}

// ApproveToken grants a spender the right to transfer one token on behalf of
// the caller, optionally until an expiry.
type ApproveToken struct {
	Caller    ledger.Account
	ID        int64
	Spender   ledger.Account
	ExpiresAt *int64
	Memo      string
	Now       int64
}

// NewApproveToken constructs and initializes the endpoint.
func NewApproveToken(
	r *http.Request,
) (Endpoint, error) {
	return &ApproveToken{}, nil
}

// Validate validates the input parameters.
func (e *ApproveToken) Validate(
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
func (e *ApproveToken) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.ApproveTokens(ctx, e.Caller, e.Now,
		[]engine.ApproveTokenItem{
			{ID: e.ID, Spender: e.Spender, ExpiresAt: e.ExpiresAt,
				Memo: e.Memo},
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
