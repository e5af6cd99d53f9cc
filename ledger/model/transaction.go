package model

import (
	"context"
	"math/big"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
)

// Transaction represents a committed ledger transaction. Block indices are
// assigned from the ledger cursor within the transaction that commits the
// state change, making the log gapless and strictly ordered.
//
// Absent fields are stored as sentinel values rather than NULLs: empty
// strings for accounts and memo, 0 for token_id (token IDs start at 1), a
// zero amount for amount and fee.
type Transaction struct {
	Block     int64
	Kind      ledger.TxKind
	Timestamp int64

	TokenID int64  `db:"token_id"`
	Amount  Amount `db:"amount"`
	Fee     Amount `db:"fee"`

	FromOwner    string `db:"from_owner"`
	FromSub      string `db:"from_sub"`
	ToOwner      string `db:"to_owner"`
	ToSub        string `db:"to_sub"`
	SpenderOwner string `db:"spender_owner"`
	SpenderSub   string `db:"spender_sub"`

	Memo string
}

// CreateTransaction creates and stores a new Transaction object at the
// provided block index.
func CreateTransaction(
	ctx context.Context,
	block int64,
	kind ledger.TxKind,
	timestamp int64,
	tokenID int64,
	amount Amount,
	fee Amount,
	from ledger.Account,
	to ledger.Account,
	spender ledger.Account,
	memo string,
) (*Transaction, error) {
	t := Transaction{
		Block:     block,
		Kind:      kind,
		Timestamp: timestamp,

		TokenID: tokenID,
		Amount:  amount,
		Fee:     fee,

		FromOwner:    from.Owner,
		FromSub:      from.Subaccount,
		ToOwner:      to.Owner,
		ToSub:        to.Subaccount,
		SpenderOwner: spender.Owner,
		SpenderSub:   spender.Subaccount,

		Memo: memo,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO transactions
  (block, kind, timestamp, token_id, amount, fee,
   from_owner, from_sub, to_owner, to_sub, spender_owner, spender_sub,
   memo)
VALUES
  (:block, :kind, :timestamp, :token_id, :amount, :fee,
   :from_owner, :from_sub, :to_owner, :to_sub, :spender_owner, :spender_sub,
   :memo)
`, t); err != nil {
		switch err := err.(type) {
		case *pq.Error:
			if err.Code.Name() == "unique_violation" {
				return nil, errors.Trace(ErrUniqueConstraintViolation{err})
			}
		case sqlite3.Error:
			if err.ExtendedCode == sqlite3.ErrConstraintUnique ||
				err.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
				return nil, errors.Trace(ErrUniqueConstraintViolation{err})
			}
		}
		return nil, errors.Trace(err)
	}

	return &t, nil
}

// LoadTransactionList loads transactions by ascending block starting at the
// provided block index.
func LoadTransactionList(
	ctx context.Context,
	start int64,
	length uint,
) ([]Transaction, error) {
	query := map[string]interface{}{
		"start":  start,
		"length": length,
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM transactions
WHERE block >= :start
ORDER BY block ASC
LIMIT :length
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		t := Transaction{}
		if err := rows.StructScan(&t); err != nil {
			return nil, errors.Trace(err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// LoadTransactionListByAccount loads the transactions involving the provided
// account (as sender or recipient, exact subaccount match) by descending
// block, strictly before the provided block index if any.
func LoadTransactionListByAccount(
	ctx context.Context,
	account ledger.Account,
	before *int64,
	limit uint,
) ([]Transaction, error) {
	query := map[string]interface{}{
		"owner":  account.Owner,
		"sub":    account.Subaccount,
		"before": int64(-1),
		"limit":  limit,
	}
	if before != nil {
		query["before"] = *before
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM transactions
WHERE (:before < 0 OR block < :before)
  AND ((from_owner = :owner AND from_sub = :sub)
    OR (to_owner = :owner AND to_sub = :sub))
ORDER BY block DESC
LIMIT :limit
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		t := Transaction{}
		if err := rows.StructScan(&t); err != nil {
			return nil, errors.Trace(err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// CountTransactions returns the number of transactions in the log.
func CountTransactions(
	ctx context.Context,
) (int64, error) {
	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT COUNT(1) AS count
FROM transactions
`, map[string]interface{}{})
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer rows.Close()

	var count int64
	if !rows.Next() {
		return 0, errors.Newf("Nothing returned from COUNT.")
	} else if err := rows.Scan(&count); err != nil {
		return 0, errors.Trace(err)
	}

	return count, nil
}

// NewTransactionResource generates a new resource.
func NewTransactionResource(
	ctx context.Context,
	t *Transaction,
) ledger.TransactionResource {
	r := ledger.TransactionResource{
		Block:     t.Block,
		Kind:      t.Kind,
		Timestamp: t.Timestamp,
	}

	if t.TokenID != 0 {
		id := t.TokenID
		r.TokenID = &id
	}
	amount := (*big.Int)(&t.Amount)
	if amount.Sign() != 0 {
		r.Amount = amount
	}
	fee := (*big.Int)(&t.Fee)
	if fee.Sign() != 0 {
		r.Fee = fee
	}
	if t.FromOwner != "" {
		from := (ledger.Account{Owner: t.FromOwner, Subaccount: t.FromSub}).String()
		r.From = &from
	}
	if t.ToOwner != "" {
		to := (ledger.Account{Owner: t.ToOwner, Subaccount: t.ToSub}).String()
		r.To = &to
	}
	if t.SpenderOwner != "" {
		spender := (ledger.Account{
			Owner:      t.SpenderOwner,
			Subaccount: t.SpenderSub,
		}).String()
		r.Spender = &spender
	}
	if t.Memo != "" {
		memo := t.Memo
		r.Memo = &memo
	}

	return r
}
