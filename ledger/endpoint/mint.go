package endpoint

import (
	"context"
	"math/big"
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
	// EndPtMint issues a fungible amount.
	EndPtMint EndPtName = "Mint"
)

func init() {
	registrar[EndPtMint] = NewMint
}

// Mint issues a fungible amount to a recipient account, growing the total
// supply. Only the ledger owner can mint unless open minting is configured.
type Mint struct {
	Caller ledger.Account
	To     ledger.Account
	Amount big.Int
	Memo   string
	Now    int64
}

// NewMint constructs and initializes the endpoint.
func NewMint(
	r *http.Request,
) (Endpoint, error) {
	return &Mint{}, nil
}

// Validate validates the input parameters.
func (e *Mint) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	caller, err := ValidateCaller(ctx, authentication.Get(ctx).Caller)
	if err != nil {
		return errors.Trace(err)
	}
	e.Caller = *caller

	to, err := ValidateAccount(ctx, r.PostFormValue("to"))
	if err != nil {
		return errors.Trace(err)
	}
	e.To = *to

	amount, err := ValidateAmount(ctx, r.PostFormValue("amount"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Amount = *amount

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
func (e *Mint) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	result, err := engine.Mint(ctx, e.Caller, e.Now,
		e.To, &e.Amount, e.Memo)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	status := http.StatusCreated
	if result.Err != nil {
		status = http.StatusOK
	}

	return ptr.Int(status), &svc.Resp{
		"mint": format.JSONPtr(result),
	}, nil
}
