package ledger

import (
	"database/sql/driver"
	"fmt"
)

// Value implements driver.Valuer.
func (k TxKind) Value() (value driver.Value, err error) {
	return string(k), nil
}

// Scan implements sql.Scanner.
func (k *TxKind) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*k = TxKind(src)
	case string:
		*k = TxKind(src)
	default:
		return fmt.Errorf(
			"Incompatible type for TxKind with value: %q", src)
	}

	return nil
}

// Value implements driver.Valuer.
func (s ApScope) Value() (value driver.Value, err error) {
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *ApScope) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*s = ApScope(src)
	case string:
		*s = ApScope(src)
	default:
		return fmt.Errorf(
			"Incompatible type for ApScope with value: %q", src)
	}

	return nil
}
