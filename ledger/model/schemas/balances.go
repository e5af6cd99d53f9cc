package schemas

import "github.com/spolu/tally/lib/db"

const (
	balancesSQL = `
CREATE TABLE IF NOT EXISTS balances(
  holder VARCHAR(256) NOT NULL,  -- holder account
  holder_sub VARCHAR(64) NOT NULL,
  created TIMESTAMP NOT NULL,

  value NUMERIC(39) NOT NULL CHECK (value >= 0),

  PRIMARY KEY(holder, holder_sub)
);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"balances",
		balancesSQL,
	)
}
