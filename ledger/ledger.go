package ledger

import (
	"context"

	"github.com/spolu/tally/lib/env"
)

const (
	// Version is the current protocol version.
	Version string = "0.0.1"

	// DefaultPageSize is the number of objects returned by list operations
	// when no limit is specified.
	DefaultPageSize uint = 100

	// EnvCfgHost is the env config key for the ledger host.
	EnvCfgHost env.ConfigKey = "host"
	// EnvCfgPort is the env config key for the ledger port.
	EnvCfgPort env.ConfigKey = "port"
)

// DefaultPort is the default port by environment.
var DefaultPort = map[env.Environment]int64{
	env.Production: 2480,
	env.QA:         2481,
}

// GetHost returns the host of the ledger as configured in the env.
func GetHost(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgHost]
}

// GetPort returns the port of the ledger as configured in the env.
func GetPort(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgPort]
}

// TxKind is the kind of a transaction record.
type TxKind string

const (
	// TxKdMint is a unique token or fungible issuance.
	TxKdMint TxKind = "mint"
	// TxKdTransfer is a direct transfer.
	TxKdTransfer TxKind = "transfer"
	// TxKdTransferFrom is a transfer executed by an approved spender.
	TxKdTransferFrom TxKind = "transfer_from"
	// TxKdApprove is the creation of an approval.
	TxKdApprove TxKind = "approve"
	// TxKdRevoke is the removal of one or more approvals.
	TxKdRevoke TxKind = "revoke"
)

// ApScope is the scope of an approval.
type ApScope string

const (
	// ApScToken is an approval scoped to a single token.
	ApScToken ApScope = "token"
	// ApScCollection is an approval scoped to all tokens of an owner.
	ApScCollection ApScope = "collection"
)
