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
	// EndPtTransferTokenFrom transfers a unique token on behalf of its owner.
	EndPtTransferTokenFrom EndPtName = "TransferTokenFrom"
)

func init() {
	registrar[EndPtTransferTokenFrom] = NewTransferTokenFrom
}

// TransferTokenFrom transfers a unique token from its owner to a recipient,
// executed by an approved spender.
type TransferTokenFrom struct {
	Caller ledger.Account
	ID     int64
	From   ledger.Account
	To     ledger.Account
	Memo   string
	Now    int64
}

// NewTransferTokenFrom constructs and initializes the endpoint.
func NewTransferTokenFrom(
	r *http.Request,
) (Endpoint, error) {
	return &TransferTokenFrom{}, nil
}

// Validate validates the input parameters.
func (e *TransferTokenFrom) Validate(
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

	from, err := ValidateAccount(ctx, r.PostFormValue("from"))
	if err != nil {
		return errors.Trace(err)
	}
	e.From = *from

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
func (e *TransferTokenFrom) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.TransferTokensFrom(ctx, e.Caller, e.Now,
		[]engine.TransferTokenFromItem{
			{ID: e.ID, From: e.From, To: e.To, Memo: e.Memo},
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
