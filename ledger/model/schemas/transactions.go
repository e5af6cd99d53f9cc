package schemas

import "github.com/spolu/tally/lib/db"

const (
	transactionsSQL = `
CREATE TABLE IF NOT EXISTS transactions(
  block BIGINT NOT NULL,         -- gapless block index, starts at 0
  kind VARCHAR(32) NOT NULL,     -- kind (mint, transfer, transfer_from, approve, revoke)
  timestamp BIGINT NOT NULL,

  token_id BIGINT NOT NULL,      -- 0 when fungible or collection-wide
  amount NUMERIC(39) NOT NULL,   -- 0 when unique
  fee NUMERIC(39) NOT NULL,

  from_owner VARCHAR(256) NOT NULL,  -- empty when minting
  from_sub VARCHAR(64) NOT NULL,
  to_owner VARCHAR(256) NOT NULL,    -- empty for approve/revoke
  to_sub VARCHAR(64) NOT NULL,
  spender_owner VARCHAR(256) NOT NULL,
  spender_sub VARCHAR(64) NOT NULL,

  memo VARCHAR(256) NOT NULL,

  PRIMARY KEY(block)
);
CREATE INDEX IF NOT EXISTS transactions_from_idx
  ON transactions(from_owner, from_sub);
CREATE INDEX IF NOT EXISTS transactions_to_idx
  ON transactions(to_owner, to_sub);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"transactions",
		transactionsSQL,
	)
}
