package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"goji.io"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/lib/authentication"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/env"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/logging"
	"github.com/spolu/tally/lib/metrics"
	"github.com/spolu/tally/lib/recoverer"
	"github.com/spolu/tally/lib/requestlogger"

	// force initialization of schemas
	_ "github.com/spolu/tally/ledger/model/schemas"
)

// BackgroundContextFromFlags initializes a background context fully loaded
// with everything that could be extracted from the flags.
func BackgroundContextFromFlags(
	envFlag string,
	dsnFlag string,
	hstFlag string,
	prtFlag string,
) (context.Context, error) {
	ctx := context.Background()

	ledgerEnv := env.Env{
		Environment: env.QA,
		Config:      map[env.ConfigKey]string{},
	}
	if envFlag == "production" || envFlag == "prod" {
		ledgerEnv.Environment = env.Production
	}
	ledgerEnv.Config[ledger.EnvCfgHost] = hstFlag

	port := fmt.Sprintf("%d", ledger.DefaultPort[ledgerEnv.Environment])
	if prtFlag != "" {
		port = prtFlag
	}
	ledgerEnv.Config[ledger.EnvCfgPort] = port

	ctx = env.With(ctx, &ledgerEnv)

	ledgerDB, err := db.NewDBForDSN(ctx,
		dsnFlag,
		fmt.Sprintf("sqlite3://~/.tally/ledger-%s.db",
			env.Get(ctx).Environment))
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = db.CreateDBTables(ctx, "ledger", ledgerDB)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ctx = db.WithDB(ctx, ledgerDB)

	return ctx, nil
}

// Build initializes the app and its web stack.
func Build(
	ctx context.Context,
) (*goji.Mux, error) {
	mux := goji.NewMux()
	mux.Use(requestlogger.Middleware)
	mux.Use(recoverer.Middleware)
	mux.Use(metrics.Middleware)
	mux.Use(db.Middleware(db.GetDB(ctx)))
	mux.Use(env.Middleware(env.Get(ctx)))
	mux.Use(authentication.Middleware)

	logging.Logf(ctx, "Initializing: environment=%s host=%s port=%s",
		env.Get(ctx).Environment, ledger.GetHost(ctx), ledger.GetPort(ctx))

	(&Controller{}).Bind(mux)

	return mux, nil
}

// Serve the goji mux.
func Serve(
	ctx context.Context,
	mux *goji.Mux,
) error {
	s := &http.Server{
		Addr:         fmt.Sprintf(":%s", ledger.GetPort(ctx)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Handler:      mux,
	}

	logging.Logf(ctx, "Listening: port=%s", ledger.GetPort(ctx))

	err := gracehttp.Serve(s)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}
