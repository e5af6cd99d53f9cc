package model

import (
	"database/sql/driver"
	"encoding/json"
	"math/big"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/lib/errors"
)

// MaxLedgerAmount is the maximum value for a fungible amount (2^128).
var MaxLedgerAmount = new(big.Int).Exp(
	new(big.Int).SetInt64(2), new(big.Int).SetInt64(128), nil)

// Amount extends big.Int to implement sql.Scanner and driver.Valuer.
type Amount big.Int

// Scan implements sql.Scanner.
func (b *Amount) Scan(src interface{}) error {
	switch src := src.(type) {
	case int64:
		(*big.Int)(b).SetInt64(src)
	case []byte:
		if _, success := (*big.Int)(b).SetString(string(src), 10); !success {
			return errors.Newf("Impossible to set Amount with string: %q", src)
		}
	case string:
		if _, success := (*big.Int)(b).SetString(src, 10); !success {
			return errors.Newf("Impossible to set Amount with string: %q", src)
		}
	default:
		return errors.Newf("Incompatible type for Amount with value: %q", src)
	}

	return nil
}

// Value implements driver.Valuer.
func (b Amount) Value() (value driver.Value, err error) {
	return (*big.Int)(&b).String(), nil
}

// Metadata is the ordered key to tagged-value map attached to a unique token
// at mint time. It is persisted as JSON.
type Metadata map[string]ledger.MetadataValue

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src interface{}) error {
	var data []byte
	switch src := src.(type) {
	case []byte:
		data = src
	case string:
		data = []byte(src)
	default:
		return errors.Newf("Incompatible type for Metadata with value: %q", src)
	}

	if len(data) == 0 {
		*m = Metadata{}
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return errors.Trace(err)
	}

	return nil
}

// Value implements driver.Valuer.
func (m Metadata) Value() (value driver.Value, err error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return string(data), nil
}
