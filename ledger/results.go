package ledger

import "math/big"

// ErrCode is the typed code of a per-item operation failure.
type ErrCode string

const (
	// ErrNonExistingTokenID the token id does not exist.
	ErrNonExistingTokenID ErrCode = "NonExistingTokenId"
	// ErrUnauthorized the caller lacks ownership or valid delegation.
	ErrUnauthorized ErrCode = "Unauthorized"
	// ErrInvalidRecipient the destination is the current owner.
	ErrInvalidRecipient ErrCode = "InvalidRecipient"
	// ErrApprovalDoesNotExist the targeted approval is absent.
	ErrApprovalDoesNotExist ErrCode = "ApprovalDoesNotExist"
	// ErrInsufficientBalance the balance does not cover amount plus fee.
	ErrInsufficientBalance ErrCode = "InsufficientBalance"
	// ErrSupplyCapReached the configured supply cap is reached.
	ErrSupplyCapReached ErrCode = "SupplyCapReached"
	// ErrAlreadyExists the token id is already minted.
	ErrAlreadyExists ErrCode = "AlreadyExists"
	// ErrGeneric escape hatch for unclassified failures.
	ErrGeneric ErrCode = "GenericError"
)

// OpError is the typed failure of a single operation item. Item failures are
// results, not faults: a failed item never affects sibling items and never
// consumes a block index.
type OpError struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message,omitempty"`
}

// NewOpError constructs an OpError for the provided code.
func NewOpError(
	code ErrCode,
	message string,
) *OpError {
	return &OpError{
		Code:    code,
		Message: message,
	}
}

// TransferResult is the terminal state of one transfer item: the block index
// of the appended record, or a typed error.
type TransferResult struct {
	Block *int64   `json:"block,omitempty"`
	Err   *OpError `json:"error,omitempty"`
}

// MintResult is the terminal state of a unique token mint.
type MintResult struct {
	Block *int64   `json:"block,omitempty"`
	Err   *OpError `json:"error,omitempty"`
}

// ApproveResult is the terminal state of one approval item.
type ApproveResult struct {
	Block *int64   `json:"block,omitempty"`
	Err   *OpError `json:"error,omitempty"`
}

// RevokeResult is the terminal state of one revocation item.
type RevokeResult struct {
	Block *int64   `json:"block,omitempty"`
	Err   *OpError `json:"error,omitempty"`
}

// FungibleTransferResult is the terminal state of a fungible transfer.
type FungibleTransferResult struct {
	Block *int64   `json:"block,omitempty"`
	Err   *OpError `json:"error,omitempty"`
}

// FungibleMintResult is the terminal state of a fungible mint, carrying the
// recipient's new balance on success.
type FungibleMintResult struct {
	Block      *int64   `json:"block,omitempty"`
	NewBalance *big.Int `json:"new_balance,omitempty"`
	Err        *OpError `json:"error,omitempty"`
}
