package test

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	goji "goji.io"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/app"
	"github.com/spolu/tally/ledger/lib/authentication"
	"github.com/spolu/tally/ledger/model"
	_ "github.com/spolu/tally/ledger/model/schemas"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/env"
	"github.com/spolu/tally/lib/recoverer"
	"github.com/spolu/tally/lib/requestlogger"
	"github.com/spolu/tally/lib/svc"
)

// Ledger represents a test ledger backed by an in-memory DB.
type Ledger struct {
	Server *httptest.Server
	Env    *env.Env
	Ctx    context.Context

	Owner ledger.Account
}

// Setup is the configuration of a test ledger.
type Setup struct {
	Fee       int64
	SupplyCap int64
	OpenMint  bool
}

// CreateLedger creates a new test ledger with an in-memory DB, initialized
// with the provided setup and owned by the `issuer` account.
func CreateLedger(
	t *testing.T,
	setup Setup,
) *Ledger {
	ctx := context.Background()

	ledgerEnv := env.Env{
		Environment: env.QA,
		Config:      map[env.ConfigKey]string{},
	}
	ctx = env.With(ctx, &ledgerEnv)

	ledgerDB, err := db.NewSqlite3DBInMemory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	err = db.CreateDBTables(ctx, "ledger", ledgerDB)
	if err != nil {
		t.Fatal(err)
	}
	ctx = db.WithDB(ctx, ledgerDB)

	owner := ledger.Account{Owner: "issuer"}

	var fee model.Amount
	(*big.Int)(&fee).SetInt64(setup.Fee)

	_, err = model.CreateLedger(ctx,
		"Test Ledger", "TST", "A ledger for tests.", 2,
		fee, setup.SupplyCap, setup.OpenMint, owner)
	if err != nil {
		t.Fatal(err)
	}

	mux := goji.NewMux()
	mux.Use(requestlogger.Middleware)
	mux.Use(recoverer.Middleware)
	mux.Use(db.Middleware(db.GetDB(ctx)))
	mux.Use(env.Middleware(env.Get(ctx)))
	mux.Use(authentication.Middleware)

	(&app.Controller{}).Bind(mux)

	m := Ledger{
		Server: httptest.NewServer(mux),
		Env:    &ledgerEnv,
		Ctx:    ctx,
		Owner:  owner,
	}

	return &m
}

// Close shuts the test ledger down.
func (m *Ledger) Close() {
	m.Server.Close()
}

// Post performs a POST request on the test ledger as the provided caller.
func (m *Ledger) Post(
	t *testing.T,
	caller ledger.Account,
	path string,
	values url.Values,
) (int, svc.Resp) {
	req, err := http.NewRequest("POST", m.Server.URL+path,
		strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if !caller.IsZero() {
		req.Header.Set(authentication.CallerHeader, caller.String())
	}

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	var raw svc.Resp
	if err := extractResp(r, &raw); err != nil {
		t.Fatal(err)
	}

	return r.StatusCode, raw
}

// Get performs a GET request on the test ledger.
func (m *Ledger) Get(
	t *testing.T,
	path string,
) (int, svc.Resp) {
	r, err := http.DefaultClient.Get(m.Server.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	var raw svc.Resp
	if err := extractResp(r, &raw); err != nil {
		t.Fatal(err)
	}

	return r.StatusCode, raw
}
