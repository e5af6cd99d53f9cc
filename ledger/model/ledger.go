package model

import (
	"context"
	"math/big"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
)

// LedgerID is the identifier of the singleton ledger configuration row. There
// is exactly one ledger per deployment.
const LedgerID = "config"

// Ledger represents the ledger configuration along with the counters that
// must be updated atomically with the objects they number (token IDs, total
// supply, block cursor).
type Ledger struct {
	ID      string
	Created time.Time

	Name        string
	Symbol      string
	Description string
	Decimals    int8
	Fee         Amount

	SupplyCap int64 `db:"supply_cap"` // 0 means no cap.
	OpenMint  bool  `db:"open_mint"`

	Owner    string
	OwnerSub string `db:"owner_sub"`

	TokenCount  int64  `db:"token_count"`
	TotalSupply Amount `db:"total_supply"`
	TxCursor    int64  `db:"tx_cursor"`
}

// CreateLedger creates and stores the singleton Ledger object. It errors with
// ErrUniqueConstraintViolation if the ledger was already initialized.
func CreateLedger(
	ctx context.Context,
	name string,
	symbol string,
	description string,
	decimals int8,
	fee Amount,
	supplyCap int64,
	openMint bool,
	owner ledger.Account,
) (*Ledger, error) {
	l := Ledger{
		ID:      LedgerID,
		Created: time.Now().UTC(),

		Name:        name,
		Symbol:      symbol,
		Description: description,
		Decimals:    decimals,
		Fee:         fee,

		SupplyCap: supplyCap,
		OpenMint:  openMint,

		Owner:    owner.Owner,
		OwnerSub: owner.Subaccount,

		TokenCount:  0,
		TotalSupply: Amount{},
		TxCursor:    0,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO ledgers
  (id, created, name, symbol, description, decimals, fee,
   supply_cap, open_mint, owner, owner_sub,
   token_count, total_supply, tx_cursor)
VALUES
  (:id, :created, :name, :symbol, :description, :decimals, :fee,
   :supply_cap, :open_mint, :owner, :owner_sub,
   :token_count, :total_supply, :tx_cursor)
`, l); err != nil {
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

	return &l, nil
}

// LoadLedger loads the singleton Ledger object, nil if the ledger was never
// initialized.
func LoadLedger(
	ctx context.Context,
) (*Ledger, error) {
	l := Ledger{
		ID: LedgerID,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM ledgers
WHERE id = :id
`, l); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&l); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &l, nil
}

// Save updates the object database representation with the in-memory values.
func (l *Ledger) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE ledgers
SET token_count = :token_count, total_supply = :total_supply,
    tx_cursor = :tx_cursor
WHERE id = :id
`, l)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// OwnerAccount returns the account of the ledger owner.
func (l *Ledger) OwnerAccount() ledger.Account {
	return ledger.Account{
		Owner:      l.Owner,
		Subaccount: l.OwnerSub,
	}
}

// NextBlock consumes and returns the next block index. The caller must Save
// the ledger within the same transaction as the log entry the index numbers.
func (l *Ledger) NextBlock() int64 {
	block := l.TxCursor
	l.TxCursor++
	return block
}

// NewLedgerResource generates a new resource.
func NewLedgerResource(
	ctx context.Context,
	l *Ledger,
) ledger.LedgerResource {
	var supplyCap *int64
	if l.SupplyCap > 0 {
		supplyCap = &l.SupplyCap
	}
	return ledger.LedgerResource{
		Created:     l.Created.Unix(),
		Name:        l.Name,
		Symbol:      l.Symbol,
		Description: l.Description,
		Decimals:    l.Decimals,
		Fee:         (*big.Int)(&l.Fee),
		SupplyCap:   supplyCap,
		OpenMint:    l.OpenMint,
		Owner:       l.OwnerAccount().String(),
		TokenCount:  l.TokenCount,
		TotalSupply: (*big.Int)(&l.TotalSupply),
	}
}
