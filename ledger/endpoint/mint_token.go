package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/engine"
	"github.com/spolu/tally/ledger/lib/authentication"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtMintToken mints a new unique token.
	EndPtMintToken EndPtName = "MintToken"
)

func init() {
	registrar[EndPtMintToken] = NewMintToken
}

// MintToken mints a unique token with a minter-chosen id to a recipient
// account. Only the ledger owner can mint unless open minting is configured.
type MintToken struct {
	Caller   ledger.Account
	ID       int64
	To       ledger.Account
	Metadata model.Metadata
	Memo     string
	Now      int64
}

// NewMintToken constructs and initializes the endpoint.
func NewMintToken(
	r *http.Request,
) (Endpoint, error) {
	return &MintToken{}, nil
}

// Validate validates the input parameters.
func (e *MintToken) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	caller, err := ValidateCaller(ctx, authentication.Get(ctx).Caller)
	if err != nil {
		return errors.Trace(err)
	}
	e.Caller = *caller

	id, err := ValidateTokenID(ctx, r.PostFormValue("id"))
	if err != nil {
		return errors.Trace(err)
	}
	e.ID = *id

	to, err := ValidateAccount(ctx, r.PostFormValue("to"))
	if err != nil {
		return errors.Trace(err)
	}
	e.To = *to

	metadata, err := ledger.ParseMetadata(r.PostFormValue("metadata"))
	if err != nil {
		return errors.Trace(errors.NewUserErrorf(err,
			400, "metadata_invalid",
			"The metadata you provided is invalid: %s. Metadata must be a "+
				"JSON map of tagged values.",
			r.PostFormValue("metadata"),
		))
	}
	e.Metadata = model.Metadata(metadata)

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
func (e *MintToken) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	results, err := engine.MintTokens(ctx, e.Caller, e.Now,
		[]engine.MintTokenItem{
			{ID: e.ID, To: e.To, Metadata: e.Metadata, Memo: e.Memo},
		})
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	status := http.StatusCreated
	if results[0].Err != nil {
		status = http.StatusOK
	}

	return ptr.Int(status), &svc.Resp{
		"mint": format.JSONPtr(results[0]),
	}, nil
}
