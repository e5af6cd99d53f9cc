package ledger

import (
	"encoding/json"
	"math/big"
)

// MetadataValue is the tagged union of values a token metadata entry can
// take. Exactly one of the fields is set.
type MetadataValue struct {
	Text *string `json:"text,omitempty"`
	Blob []byte  `json:"blob,omitempty"`
	Nat  *uint64 `json:"nat,omitempty"`
	Int  *int64  `json:"int,omitempty"`
}

// TextValue returns a MetadataValue holding a text.
func TextValue(text string) MetadataValue {
	return MetadataValue{Text: &text}
}

// BlobValue returns a MetadataValue holding a blob.
func BlobValue(blob []byte) MetadataValue {
	return MetadataValue{Blob: blob}
}

// NatValue returns a MetadataValue holding an unsigned integer.
func NatValue(nat uint64) MetadataValue {
	return MetadataValue{Nat: &nat}
}

// IntValue returns a MetadataValue holding a signed integer.
func IntValue(int int64) MetadataValue {
	return MetadataValue{Int: &int}
}

// LedgerResource is the representation of the ledger configuration in the
// API.
type LedgerResource struct {
	Created int64 `json:"created"`

	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description,omitempty"`
	Decimals    int8     `json:"decimals"`
	Fee         *big.Int `json:"fee"`
	SupplyCap   *int64   `json:"supply_cap,omitempty"`
	OpenMint    bool     `json:"open_mint"`
	Owner       string   `json:"owner"`

	TokenCount  int64    `json:"token_count"`
	TotalSupply *big.Int `json:"total_supply"`
}

// TokenResource is the representation of a unique token in the API.
type TokenResource struct {
	ID      int64 `json:"id"`
	Created int64 `json:"created"`

	Owner    string                   `json:"owner"`
	Metadata map[string]MetadataValue `json:"metadata,omitempty"`
}

// BalanceResource is the representation of a fungible balance in the API.
type BalanceResource struct {
	Holder string   `json:"holder"`
	Value  *big.Int `json:"value"`
}

// ApprovalResource is the representation of an approval in the API.
type ApprovalResource struct {
	Created int64 `json:"created"`

	Scope     ApScope `json:"scope"`
	TokenID   *int64  `json:"token_id,omitempty"`
	Owner     string  `json:"owner"`
	Spender   string  `json:"spender"`
	ExpiresAt *int64  `json:"expires_at,omitempty"`
}

// TransactionResource is the representation of a transaction log record in
// the API.
type TransactionResource struct {
	Block     int64  `json:"block"`
	Kind      TxKind `json:"kind"`
	Timestamp int64  `json:"timestamp"`

	TokenID *int64   `json:"token_id,omitempty"`
	Amount  *big.Int `json:"amount,omitempty"`
	Fee     *big.Int `json:"fee,omitempty"`

	From    *string `json:"from,omitempty"`
	To      *string `json:"to,omitempty"`
	Spender *string `json:"spender,omitempty"`
	Memo    *string `json:"memo,omitempty"`
}

// ParseMetadata parses a JSON-encoded metadata map.
func ParseMetadata(
	data string,
) (map[string]MetadataValue, error) {
	metadata := map[string]MetadataValue{}
	if data == "" {
		return metadata, nil
	}
	if err := json.Unmarshal([]byte(data), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
