package app

import (
	"github.com/spolu/tally/ledger/endpoint"
	"github.com/spolu/tally/lib/metrics"
	"goji.io"
	"goji.io/pat"
)

// Controller binds the API.
type Controller struct{}

// Bind registers the API routes.
func (c *Controller) Bind(
	mux *goji.Mux,
) {
	// Authenticated (require a Ledger-Caller header).
	mux.HandleFunc(pat.Post("/tokens"), endpoint.HandlerFor(endpoint.EndPtMintToken))
	mux.HandleFunc(pat.Post("/tokens/:token/transfer"), endpoint.HandlerFor(endpoint.EndPtTransferToken))
	mux.HandleFunc(pat.Post("/tokens/:token/transfer_from"), endpoint.HandlerFor(endpoint.EndPtTransferTokenFrom))
	mux.HandleFunc(pat.Post("/tokens/:token/approve"), endpoint.HandlerFor(endpoint.EndPtApproveToken))
	mux.HandleFunc(pat.Post("/tokens/:token/revoke"), endpoint.HandlerFor(endpoint.EndPtRevokeToken))
	mux.HandleFunc(pat.Post("/collection/approve"), endpoint.HandlerFor(endpoint.EndPtApproveCollection))
	mux.HandleFunc(pat.Post("/collection/revoke"), endpoint.HandlerFor(endpoint.EndPtRevokeCollection))
	mux.HandleFunc(pat.Post("/transfers"), endpoint.HandlerFor(endpoint.EndPtTransfer))
	mux.HandleFunc(pat.Post("/mints"), endpoint.HandlerFor(endpoint.EndPtMint))

	// Public.
	mux.HandleFunc(pat.Get("/ledger"), endpoint.HandlerFor(endpoint.EndPtRetrieveLedger))
	mux.HandleFunc(pat.Get("/tokens"), endpoint.HandlerFor(endpoint.EndPtListTokens))
	mux.HandleFunc(pat.Get("/tokens/:token"), endpoint.HandlerFor(endpoint.EndPtRetrieveToken))
	mux.HandleFunc(pat.Get("/tokens/:token/approvals"), endpoint.HandlerFor(endpoint.EndPtListTokenApprovals))
	mux.HandleFunc(pat.Get("/accounts/:account/tokens"), endpoint.HandlerFor(endpoint.EndPtListAccountTokens))
	mux.HandleFunc(pat.Get("/accounts/:account/approvals"), endpoint.HandlerFor(endpoint.EndPtListAccountApprovals))
	mux.HandleFunc(pat.Get("/accounts/:account/balance"), endpoint.HandlerFor(endpoint.EndPtRetrieveBalance))
	mux.HandleFunc(pat.Get("/accounts/:account/transactions"), endpoint.HandlerFor(endpoint.EndPtListAccountTransactions))
	mux.HandleFunc(pat.Get("/transactions"), endpoint.HandlerFor(endpoint.EndPtListTransactions))

	mux.Handle(pat.Get("/metrics"), metrics.Handler())
}
