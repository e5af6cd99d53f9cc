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

// Balance represents the fungible balance of an account. Balances are updated
// as transfers and mints are executed.
type Balance struct {
	Holder    string
	HolderSub string `db:"holder_sub"`
	Created   time.Time

	Value Amount
}

// CreateBalance creates and stores a new Balance object. Only one balance can
// exist per account. Existing balances should be retrieved and updated
// instead.
func CreateBalance(
	ctx context.Context,
	holder ledger.Account,
	value Amount,
) (*Balance, error) {
	b := Balance{
		Holder:    holder.Owner,
		HolderSub: holder.Subaccount,
		Created:   time.Now().UTC(),

		Value: value,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO balances
  (holder, holder_sub, created, value)
VALUES
  (:holder, :holder_sub, :created, :value)
`, b); err != nil {
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

	return &b, nil
}

// LoadBalanceByHolder attempts to load the balance of the provided account,
// nil if it does not exist.
func LoadBalanceByHolder(
	ctx context.Context,
	holder ledger.Account,
) (*Balance, error) {
	b := Balance{
		Holder:    holder.Owner,
		HolderSub: holder.Subaccount,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM balances
WHERE holder = :holder
  AND holder_sub = :holder_sub
`, b); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&b); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &b, nil
}

// LoadOrCreateBalanceByHolder loads the balance of the provided account,
// creating a zero-valued one if it does not exist yet.
func LoadOrCreateBalanceByHolder(
	ctx context.Context,
	holder ledger.Account,
) (*Balance, error) {
	b, err := LoadBalanceByHolder(ctx, holder)
	if err != nil {
		return nil, errors.Trace(err)
	} else if b == nil {
		b, err = CreateBalance(ctx, holder, Amount{})
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return b, nil
}

// Save updates the object database representation with the in-memory values.
func (b *Balance) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE balances
SET value = :value
WHERE holder = :holder
  AND holder_sub = :holder_sub
`, b)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// HolderAccount returns the account holding the balance.
func (b *Balance) HolderAccount() ledger.Account {
	return ledger.Account{
		Owner:      b.Holder,
		Subaccount: b.HolderSub,
	}
}

// NewBalanceResource generates a new resource.
func NewBalanceResource(
	ctx context.Context,
	b *Balance,
) ledger.BalanceResource {
	return ledger.BalanceResource{
		Holder: b.HolderAccount().String(),
		Value:  (*big.Int)(&b.Value),
	}
}
