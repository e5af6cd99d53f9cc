package endpoint

import (
	"context"
	"net/http"

	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtListTokens lists token ids.
	EndPtListTokens EndPtName = "ListTokens"
)

func init() {
	registrar[EndPtListTokens] = NewListTokens
}

// ListTokens lists the ids of all minted tokens in ascending order, paginated
// with an exclusive id cursor.
type ListTokens struct {
	Cursor *int64
	Limit  uint
}

// NewListTokens constructs and initializes the endpoint.
func NewListTokens(
	r *http.Request,
) (Endpoint, error) {
	return &ListTokens{}, nil
}

// Validate validates the input parameters.
func (e *ListTokens) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	cursor, err := ValidateCursor(ctx, r.URL.Query().Get("cursor"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Cursor = cursor

	limit, err := ValidateLimit(ctx, r.URL.Query().Get("limit"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Limit = *limit

	return nil
}

// Execute executes the endpoint.
func (e *ListTokens) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	ids, err := model.LoadTokenIDList(ctx, e.Cursor, e.Limit)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"token_ids": format.JSONPtr(ids),
	}, nil
}
