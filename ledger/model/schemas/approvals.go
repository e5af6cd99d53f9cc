package schemas

import "github.com/spolu/tally/lib/db"

const (
	approvalsSQL = `
CREATE TABLE IF NOT EXISTS approvals(
  created TIMESTAMP NOT NULL,

  scope VARCHAR(32) NOT NULL,    -- scope (token, collection)
  token_id BIGINT NOT NULL,      -- approved token id, 0 for collection scope

  owner VARCHAR(256) NOT NULL,   -- granting account
  owner_sub VARCHAR(64) NOT NULL,
  spender VARCHAR(256) NOT NULL, -- approved account
  spender_sub VARCHAR(64) NOT NULL,

  expires_at BIGINT,             -- expiry timestamp, NULL for no expiry

  PRIMARY KEY(scope, token_id, owner, owner_sub, spender, spender_sub)
);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"approvals",
		approvalsSQL,
	)
}
