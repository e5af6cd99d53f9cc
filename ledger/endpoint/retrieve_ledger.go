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
	// EndPtRetrieveLedger retrieves the ledger configuration.
	EndPtRetrieveLedger EndPtName = "RetrieveLedger"
)

func init() {
	registrar[EndPtRetrieveLedger] = NewRetrieveLedger
}

// RetrieveLedger retrieves the ledger configuration and counters.
type RetrieveLedger struct{}

// NewRetrieveLedger constructs and initializes the endpoint.
func NewRetrieveLedger(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveLedger{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveLedger) Validate(
	r *http.Request,
) error {
	return nil
}

// Execute executes the endpoint.
func (e *RetrieveLedger) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	l, err := model.LoadLedger(ctx)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	} else if l == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "ledger_not_found",
			"The ledger is not initialized.",
		))
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"ledger": format.JSONPtr(model.NewLedgerResource(ctx, l)),
	}, nil
}
