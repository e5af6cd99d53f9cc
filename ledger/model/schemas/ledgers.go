package schemas

import "github.com/spolu/tally/lib/db"

const (
	ledgersSQL = `
CREATE TABLE IF NOT EXISTS ledgers(
  id VARCHAR(32) NOT NULL,       -- always "config", one row per deployment
  created TIMESTAMP NOT NULL,

  name VARCHAR(256) NOT NULL,
  symbol VARCHAR(64) NOT NULL,
  description VARCHAR(2048) NOT NULL,
  decimals SMALLINT NOT NULL,
  fee NUMERIC(39) NOT NULL,      -- flat fee burned on transfer

  supply_cap BIGINT NOT NULL,    -- maximum token count, 0 for no cap
  open_mint BOOL NOT NULL,       -- anyone can mint

  owner VARCHAR(256) NOT NULL,   -- owner account
  owner_sub VARCHAR(64) NOT NULL,

  token_count BIGINT NOT NULL,   -- unique tokens minted
  total_supply NUMERIC(39) NOT NULL,
  tx_cursor BIGINT NOT NULL,     -- next block index

  PRIMARY KEY(id)
);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"ledgers",
		ledgersSQL,
	)
}
