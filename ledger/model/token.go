package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
)

// Token represents a unique token. The pair (owner, owner_sub) is the account
// currently holding the token.
type Token struct {
	ID      int64
	Created time.Time

	Owner    string
	OwnerSub string `db:"owner_sub"`
	Metadata Metadata
}

// CreateToken creates and stores a new Token object. Token IDs are chosen by
// the minter, a collision with an existing token is reported as
// ErrUniqueConstraintViolation.
func CreateToken(
	ctx context.Context,
	id int64,
	owner ledger.Account,
	metadata Metadata,
) (*Token, error) {
	t := Token{
		ID:      id,
		Created: time.Now().UTC(),

		Owner:    owner.Owner,
		OwnerSub: owner.Subaccount,
		Metadata: metadata,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO tokens
  (id, created, owner, owner_sub, metadata)
VALUES
  (:id, :created, :owner, :owner_sub, :metadata)
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

// LoadTokenByID attempts to load a token by its ID, nil if it does not exist.
func LoadTokenByID(
	ctx context.Context,
	id int64,
) (*Token, error) {
	t := Token{
		ID: id,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM tokens
WHERE id = :id
`, t); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&t); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &t, nil
}

// Save updates the object database representation with the in-memory values.
func (t *Token) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE tokens
SET owner = :owner, owner_sub = :owner_sub, metadata = :metadata
WHERE id = :id
`, t)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// OwnerAccount returns the account currently holding the token.
func (t *Token) OwnerAccount() ledger.Account {
	return ledger.Account{
		Owner:      t.Owner,
		Subaccount: t.OwnerSub,
	}
}

// SetOwner transfers the in-memory token to the provided account.
func (t *Token) SetOwner(
	account ledger.Account,
) {
	t.Owner = account.Owner
	t.OwnerSub = account.Subaccount
}

// LoadTokenIDList loads token IDs in ascending order, strictly after the
// provided cursor if any.
func LoadTokenIDList(
	ctx context.Context,
	cursor *int64,
	limit uint,
) ([]int64, error) {
	query := map[string]interface{}{
		"cursor": int64(-1),
		"limit":  limit,
	}
	if cursor != nil {
		query["cursor"] = *cursor
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT id
FROM tokens
WHERE id > :cursor
ORDER BY id ASC
LIMIT :limit
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Trace(err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// LoadTokenIDListByOwner loads the IDs of the tokens held by the provided
// account in ascending order, strictly after the provided cursor if any.
func LoadTokenIDListByOwner(
	ctx context.Context,
	account ledger.Account,
	cursor *int64,
	limit uint,
) ([]int64, error) {
	query := map[string]interface{}{
		"owner":     account.Owner,
		"owner_sub": account.Subaccount,
		"cursor":    int64(-1),
		"limit":     limit,
	}
	if cursor != nil {
		query["cursor"] = *cursor
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT id
FROM tokens
WHERE owner = :owner
  AND owner_sub = :owner_sub
  AND id > :cursor
ORDER BY id ASC
LIMIT :limit
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Trace(err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// NewTokenResource generates a new resource.
func NewTokenResource(
	ctx context.Context,
	t *Token,
) ledger.TokenResource {
	return ledger.TokenResource{
		ID:       t.ID,
		Created:  t.Created.Unix(),
		Owner:    t.OwnerAccount().String(),
		Metadata: t.Metadata,
	}
}
