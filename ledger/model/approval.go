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

// Approval represents a grant from an owner account to a spender account.
// Token-scoped approvals cover a single token (token_id is the token ID),
// collection-scoped approvals cover all tokens the owner holds (token_id is
// 0, unused for that scope).
type Approval struct {
	Created time.Time

	Scope   ledger.ApScope
	TokenID int64 `db:"token_id"`

	Owner      string
	OwnerSub   string `db:"owner_sub"`
	Spender    string
	SpenderSub string `db:"spender_sub"`

	ExpiresAt *int64 `db:"expires_at"`
}

// CreateApproval creates and stores a new Approval object.
func CreateApproval(
	ctx context.Context,
	scope ledger.ApScope,
	tokenID int64,
	owner ledger.Account,
	spender ledger.Account,
	expiresAt *int64,
) (*Approval, error) {
	a := Approval{
		Created: time.Now().UTC(),

		Scope:   scope,
		TokenID: tokenID,

		Owner:      owner.Owner,
		OwnerSub:   owner.Subaccount,
		Spender:    spender.Owner,
		SpenderSub: spender.Subaccount,

		ExpiresAt: expiresAt,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO approvals
  (created, scope, token_id, owner, owner_sub, spender, spender_sub,
   expires_at)
VALUES
  (:created, :scope, :token_id, :owner, :owner_sub, :spender, :spender_sub,
   :expires_at)
`, a); err != nil {
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

	return &a, nil
}

// LoadApprovalByScopeOwnerSpender attempts to load the approval for the
// provided scope, token ID, owner and spender, nil if it does not exist.
func LoadApprovalByScopeOwnerSpender(
	ctx context.Context,
	scope ledger.ApScope,
	tokenID int64,
	owner ledger.Account,
	spender ledger.Account,
) (*Approval, error) {
	a := Approval{
		Scope:   scope,
		TokenID: tokenID,

		Owner:      owner.Owner,
		OwnerSub:   owner.Subaccount,
		Spender:    spender.Owner,
		SpenderSub: spender.Subaccount,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM approvals
WHERE scope = :scope
  AND token_id = :token_id
  AND owner = :owner
  AND owner_sub = :owner_sub
  AND spender = :spender
  AND spender_sub = :spender_sub
`, a); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&a); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &a, nil
}

// Save updates the object database representation with the in-memory values.
// Re-approving an existing (scope, token, owner, spender) updates its expiry.
func (a *Approval) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE approvals
SET created = :created, expires_at = :expires_at
WHERE scope = :scope
  AND token_id = :token_id
  AND owner = :owner
  AND owner_sub = :owner_sub
  AND spender = :spender
  AND spender_sub = :spender_sub
`, a)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// Delete removes the object from the database.
func (a *Approval) Delete(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
DELETE FROM approvals
WHERE scope = :scope
  AND token_id = :token_id
  AND owner = :owner
  AND owner_sub = :owner_sub
  AND spender = :spender
  AND spender_sub = :spender_sub
`, a)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// DeleteApprovalsByTokenID deletes all token-scoped approvals for the
// provided token ID (used when the token changes hands).
func DeleteApprovalsByTokenID(
	ctx context.Context,
	tokenID int64,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
DELETE FROM approvals
WHERE scope = :scope
  AND token_id = :token_id
`, map[string]interface{}{
		"scope":    ledger.ApScToken,
		"token_id": tokenID,
	})
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// DeleteTokenApprovalsByOwner deletes the token-scoped approvals granted by
// the provided owner for the provided token ID, optionally restricted to a
// single spender.
func DeleteTokenApprovalsByOwner(
	ctx context.Context,
	tokenID int64,
	owner ledger.Account,
	spender *ledger.Account,
) (int64, error) {
	query := map[string]interface{}{
		"scope":     ledger.ApScToken,
		"token_id":  tokenID,
		"owner":     owner.Owner,
		"owner_sub": owner.Subaccount,
	}

	sql := `
DELETE FROM approvals
WHERE scope = :scope
  AND token_id = :token_id
  AND owner = :owner
  AND owner_sub = :owner_sub
`
	if spender != nil {
		query["spender"] = spender.Owner
		query["spender_sub"] = spender.Subaccount
		sql += `  AND spender = :spender
  AND spender_sub = :spender_sub
`
	}

	ext := db.Ext(ctx)
	res, err := sqlx.NamedExec(ext, sql, query)
	if err != nil {
		return 0, errors.Trace(err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Trace(err)
	}

	return count, nil
}

// DeleteCollectionApprovalsByOwner deletes the collection-scoped approvals
// granted by the provided owner, optionally restricted to a single spender.
func DeleteCollectionApprovalsByOwner(
	ctx context.Context,
	owner ledger.Account,
	spender *ledger.Account,
) (int64, error) {
	query := map[string]interface{}{
		"scope":     ledger.ApScCollection,
		"owner":     owner.Owner,
		"owner_sub": owner.Subaccount,
	}

	sql := `
DELETE FROM approvals
WHERE scope = :scope
  AND owner = :owner
  AND owner_sub = :owner_sub
`
	if spender != nil {
		query["spender"] = spender.Owner
		query["spender_sub"] = spender.Subaccount
		sql += `  AND spender = :spender
  AND spender_sub = :spender_sub
`
	}

	ext := db.Ext(ctx)
	res, err := sqlx.NamedExec(ext, sql, query)
	if err != nil {
		return 0, errors.Trace(err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Trace(err)
	}

	return count, nil
}

// LoadApprovalListByTokenID loads the token-scoped approvals covering the
// provided token ID, ordered by spender. Expired approvals are included, they
// only disappear on revocation or transfer.
func LoadApprovalListByTokenID(
	ctx context.Context,
	tokenID int64,
) ([]Approval, error) {
	query := map[string]interface{}{
		"scope":    ledger.ApScToken,
		"token_id": tokenID,
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM approvals
WHERE scope = :scope
  AND token_id = :token_id
ORDER BY spender ASC, spender_sub ASC
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	approvals := []Approval{}
	for rows.Next() {
		a := Approval{}
		if err := rows.StructScan(&a); err != nil {
			return nil, errors.Trace(err)
		}
		approvals = append(approvals, a)
	}

	return approvals, nil
}

// LoadApprovalListByOwner loads the approvals granted by the provided account,
// collection-scoped first, then token-scoped by ascending token ID.
func LoadApprovalListByOwner(
	ctx context.Context,
	owner ledger.Account,
) ([]Approval, error) {
	query := map[string]interface{}{
		"owner":     owner.Owner,
		"owner_sub": owner.Subaccount,
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM approvals
WHERE owner = :owner
  AND owner_sub = :owner_sub
ORDER BY scope ASC, token_id ASC, spender ASC, spender_sub ASC
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	approvals := []Approval{}
	for rows.Next() {
		a := Approval{}
		if err := rows.StructScan(&a); err != nil {
			return nil, errors.Trace(err)
		}
		approvals = append(approvals, a)
	}

	return approvals, nil
}

// OwnerAccount returns the account that granted the approval.
func (a *Approval) OwnerAccount() ledger.Account {
	return ledger.Account{
		Owner:      a.Owner,
		Subaccount: a.OwnerSub,
	}
}

// SpenderAccount returns the account the approval was granted to.
func (a *Approval) SpenderAccount() ledger.Account {
	return ledger.Account{
		Owner:      a.Spender,
		Subaccount: a.SpenderSub,
	}
}

// Authorizes returns whether the approval is active at the provided time.
// Expired approvals are not deleted eagerly, they merely stop authorizing.
func (a *Approval) Authorizes(
	now int64,
) bool {
	return a.ExpiresAt == nil || *a.ExpiresAt > now
}

// NewApprovalResource generates a new resource.
func NewApprovalResource(
	ctx context.Context,
	a *Approval,
) ledger.ApprovalResource {
	var tokenID *int64
	if a.Scope == ledger.ApScToken {
		id := a.TokenID
		tokenID = &id
	}
	return ledger.ApprovalResource{
		Created:   a.Created.Unix(),
		Scope:     a.Scope,
		TokenID:   tokenID,
		Owner:     a.OwnerAccount().String(),
		Spender:   a.SpenderAccount().String(),
		ExpiresAt: a.ExpiresAt,
	}
}
