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
	// EndPtTransfer transfers a fungible amount.
	EndPtTransfer EndPtName = "Transfer"
)

func init() {
	registrar[EndPtTransfer] = NewTransfer
}

// Transfer moves a fungible amount from the caller to a recipient account.
// The fee, defaulting to the configured flat fee, is debited on top of the
// amount and burned.
type Transfer struct {
	Caller ledger.Account
	To     ledger.Account
	Amount big.Int
	Fee    *big.Int
	Memo   string
	Now    int64
}

// NewTransfer constructs and initializes the endpoint.
func NewTransfer(
	r *http.Request,
) (Endpoint, error) {
	return &Transfer{}, nil
}

// Validate validates the input parameters.
func (e *Transfer) Validate(
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

	if f := r.PostFormValue("fee"); f != "" {
		fee, err := ValidateAmount(ctx, f)
		if err != nil {
			return errors.Trace(err)
		}
		e.Fee = fee
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
func (e *Transfer) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	result, err := engine.Transfer(ctx, e.Caller, e.Now,
		e.To, &e.Amount, e.Fee, e.Memo)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	status := http.StatusCreated
	if result.Err != nil {
		status = http.StatusOK
	}

	return ptr.Int(status), &svc.Resp{
		"transfer": format.JSONPtr(result),
	}, nil
}
