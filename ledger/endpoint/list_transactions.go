package endpoint

import (
	"context"
	"net/http"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/format"
	"github.com/spolu/tally/lib/ptr"
	"github.com/spolu/tally/lib/svc"
)

const (
	// EndPtListTransactions lists the transaction log.
	EndPtListTransactions EndPtName = "ListTransactions"
)

func init() {
	registrar[EndPtListTransactions] = NewListTransactions
}

// ListTransactions lists the transaction log by ascending block index from a
// starting block.
type ListTransactions struct {
	Start int64
	Limit uint
}

// NewListTransactions constructs and initializes the endpoint.
func NewListTransactions(
	r *http.Request,
) (Endpoint, error) {
	return &ListTransactions{}, nil
}

// Validate validates the input parameters.
func (e *ListTransactions) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	start, err := ValidateCursor(ctx, r.URL.Query().Get("start"))
	if err != nil {
		return errors.Trace(err)
	}
	if start != nil {
		e.Start = *start
	}

	limit, err := ValidateLimit(ctx, r.URL.Query().Get("limit"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Limit = *limit

	return nil
}

// Execute executes the endpoint.
func (e *ListTransactions) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	transactions, err := model.LoadTransactionList(ctx, e.Start, e.Limit)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	resources := []ledger.TransactionResource{}
	for i := range transactions {
		resources = append(resources,
			model.NewTransactionResource(ctx, &transactions[i]))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"transactions": format.JSONPtr(resources),
	}, nil
}
