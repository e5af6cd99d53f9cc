package authentication

import (
	"context"
	"net/http"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/logging"
	"github.com/spolu/tally/lib/respond"
)

// ContextKey is the type of the key used with context to carry the
// authenticated caller.
type ContextKey string

const (
	// statusKey the context.Context key to store the authentication status.
	statusKey ContextKey = "authentication.status"

	// CallerHeader is the header carrying the caller account.
	CallerHeader = "Ledger-Caller"
)

// AutStatus indicates the status of the authentication.
type AutStatus string

const (
	// AutStSucceeded indicates a successful authentication.
	AutStSucceeded AutStatus = "succeeded"
	// AutStSkipped indicates a skipped authentication.
	AutStSkipped AutStatus = "skipped"
)

// Status stores the authentication status and the caller account if
// applicable.
type Status struct {
	Status AutStatus
	Caller *ledger.Account
}

// With stores the authentication status in a new context.
func With(
	ctx context.Context,
	status Status,
) context.Context {
	return context.WithValue(ctx, statusKey, status)
}

// Get retrieves the authentication status from the context.
func Get(
	ctx context.Context,
) Status {
	return ctx.Value(statusKey).(Status)
}

type middleware struct {
	http.Handler
}

// ServeHTTP extracts the caller account from the request headers. Reads need
// no caller, so requests without one proceed with a skipped status and
// endpoints that mutate state reject them at validation.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()

	address := r.Header.Get(CallerHeader)
	if address == "" {
		withStatus := With(ctx, Status{AutStSkipped, nil})
		logging.Logf(ctx, "Authentication: status=%q",
			Get(withStatus).Status)
		m.Handler.ServeHTTP(w, r.WithContext(withStatus))
		return
	}

	caller, err := ledger.ParseAccount(address)
	if err != nil {
		withStatus := With(ctx, Status{AutStSkipped, nil})
		respond.Error(withStatus, w, errors.Trace(errors.NewUserErrorf(err,
			400, "caller_invalid",
			"The caller account you provided is invalid: %s.",
			address,
		)))
		return
	}

	withStatus := With(ctx, Status{AutStSucceeded, caller})
	logging.Logf(ctx, "Authentication: status=%q caller=%q",
		Get(withStatus).Status, caller.String())
	m.Handler.ServeHTTP(w, r.WithContext(withStatus))
}

// Middleware returns a middleware that extracts the caller account.
func Middleware(h http.Handler) http.Handler {
	return middleware{h}
}
