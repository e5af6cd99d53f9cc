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
	// EndPtTransferToken transfers a unique token.
	EndPtTransferToken EndPtName = "TransferToken"
)

func init() {
	registrar[EndPtTransferToken] = NewTransferToken
}

// TransferToken transfers a unique token to a recipient account. The caller
// must own the token or hold an active approval from its owner.
type TransferToken struct {
	Caller ledger.Account
	ID     int64
	To     ledger.Account
	Memo   string
	Now    int64
}

// NewTransferToken constructs and initializes the endpoint.
func NewTransferToken(
	r *http.Request,
) (Endpoint, error) {
	return &TransferToken{}, nil
}

// Validate validates the input parameters.
func (e *TransferToken) Validate(
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

	to, err := ValidateAccount(ctx, r.PostFormValue("to"))
	if err != nil {
		return errors.Trace(err)
	}
	e.To = *to

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
func (e *TransferToken) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.TransferTokens(ctx, e.Caller, e.Now,
		[]engine.TransferTokenItem{
			{ID: e.ID, To: e.To, Memo: e.Memo},
		})
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	status := http.StatusCreated
	if results[0].Err != nil {
		status = http.StatusOK
	}

	return ptr.Int(status), &svc.Resp{
		"transfer": format.JSONPtr(results[0]),
	}, nil
}
