package schemas

import "github.com/spolu/tally/lib/db"

const (
	tokensSQL = `
CREATE TABLE IF NOT EXISTS tokens(
  id BIGINT NOT NULL,            -- token id, chosen at mint
  created TIMESTAMP NOT NULL,

  owner VARCHAR(256) NOT NULL,   -- current holder account
  owner_sub VARCHAR(64) NOT NULL,
  metadata TEXT NOT NULL,        -- JSON, set at mint

  PRIMARY KEY(id)
);
CREATE INDEX IF NOT EXISTS tokens_owner_idx ON tokens(owner, owner_sub);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"tokens",
		tokensSQL,
	)
}
