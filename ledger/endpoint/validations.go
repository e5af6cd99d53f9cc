package endpoint

import (
	"context"
	"math/big"
	"strconv"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/ptr"
)

const (
	// maxListLimit is the maximum number of objects a list endpoint returns.
	maxListLimit uint = 1000
)

// ValidateCaller returns the authenticated caller account, erroring if the
// request carries none.
func ValidateCaller(
	ctx context.Context,
	caller *ledger.Account,
) (*ledger.Account, error) {
	if caller == nil {
		return nil, errors.Trace(errors.NewUserErrorf(nil,
			400, "caller_required",
			"This endpoint requires a caller account. Pass it with the "+
				"Ledger-Caller header: owner or owner:subaccount-hex.",
		))
	}

	return caller, nil
}

// ValidateAccount validates an account address.
func ValidateAccount(
	ctx context.Context,
	address string,
) (*ledger.Account, error) {
	account, err := ledger.ParseAccount(address)
	if err != nil {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "account_invalid",
			"The account you provided is invalid: %s. Accounts must have "+
				"the form owner or owner:subaccount-hex (32 bytes).",
			address,
		))
	}

	return account, nil
}

// ValidateTokenID validates a token id. Token ids are positive integers, 0 is
// reserved as the collection-wide sentinel.
func ValidateTokenID(
	ctx context.Context,
	id string,
) (*int64, error) {
	tokenID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || tokenID <= 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "token_id_invalid",
			"The token id you provided is invalid: %s. Token ids must be "+
				"positive integers.",
			id,
		))
	}

	return &tokenID, nil
}

// ValidateAmount validates a fungible amount.
func ValidateAmount(
	ctx context.Context,
	amount string,
) (*big.Int, error) {
	var a big.Int
	_, success := a.SetString(amount, 10)
	if !success ||
		a.Cmp(new(big.Int)) < 0 ||
		a.Cmp(model.MaxLedgerAmount) >= 0 {
		return nil, errors.Trace(errors.NewUserErrorf(nil,
			400, "amount_invalid",
			"The amount you provided is invalid: %s. Amounts must be "+
				"integers between 0 and 2^128.",
			amount,
		))
	}

	return &a, nil
}

// ValidateExpiresAt validates an optional expiry timestamp.
func ValidateExpiresAt(
	ctx context.Context,
	expiresAt string,
) (*int64, error) {
	if expiresAt == "" {
		return nil, nil
	}
	e, err := strconv.ParseInt(expiresAt, 10, 64)
	if err != nil || e < 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "expires_at_invalid",
			"The expiry you provided is invalid: %s. Expiries must be "+
				"non-negative Unix timestamps in seconds.",
			expiresAt,
		))
	}

	return &e, nil
}

// ValidateLimit validates a list limit.
func ValidateLimit(
	ctx context.Context,
	limit string,
) (*uint, error) {
	if limit == "" {
		return ptr.Uint(ledger.DefaultPageSize), nil
	}
	l, err := strconv.ParseUint(limit, 10, 32)
	if err != nil || uint(l) > maxListLimit || l == 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "limit_invalid",
			"The limit you provided is invalid: %s. Limits must be "+
				"integers between 1 and %d.",
			limit, maxListLimit,
		))
	}

	return ptr.Uint(uint(l)), nil
}

// ValidateCursor validates an optional pagination cursor.
func ValidateCursor(
	ctx context.Context,
	cursor string,
) (*int64, error) {
	if cursor == "" {
		return nil, nil
	}
	c, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || c < 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "cursor_invalid",
			"The cursor you provided is invalid: %s. Cursors must be "+
				"non-negative integers.",
			cursor,
		))
	}

	return &c, nil
}

// ValidateMemo validates an optional transfer memo.
func ValidateMemo(
	ctx context.Context,
	memo string,
) (*string, error) {
	if len(memo) > 256 {
		return nil, errors.Trace(errors.NewUserErrorf(nil,
			400, "memo_invalid",
			"The memo you provided is too long: %d characters (max 256).",
			len(memo),
		))
	}

	return &memo, nil
}

// ValidateTimestamp validates an optional logical timestamp, defaulting to
// the provided fallback.
func ValidateTimestamp(
	ctx context.Context,
	timestamp string,
	fallback int64,
) (*int64, error) {
	if timestamp == "" {
		return &fallback, nil
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil || ts < 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "timestamp_invalid",
			"The timestamp you provided is invalid: %s. Timestamps must "+
				"be non-negative Unix timestamps in seconds.",
			timestamp,
		))
	}

	return &ts, nil
}
