package endpoint

import (
	"context"
	"net/http"

	"goji.io/pat"

	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtRetrieveToken retrieves a unique token.
	EndPtRetrieveToken EndPtName = "RetrieveToken"
)

func init() {
	registrar[EndPtRetrieveToken] = NewRetrieveToken
}

// RetrieveToken retrieves a unique token by id, its current owner included.
type RetrieveToken struct {
	ID int64
}

// NewRetrieveToken constructs and initializes the endpoint.
func NewRetrieveToken(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveToken{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveToken) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	id, err := ValidateTokenID(ctx, pat.Param(r, "token"))
	if err != nil {
		return errors.Trace(err)
	}
	e.ID = *id

	return nil
}

// Execute executes the endpoint.
func (e *RetrieveToken) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	token, err := model.LoadTokenByID(ctx, e.ID)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	} else if token == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "token_not_found",
			"The token you are trying to retrieve does not exist: %d.",
			e.ID,
		))
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"token": format.JSONPtr(model.NewTokenResource(ctx, token)),
	}, nil
}
