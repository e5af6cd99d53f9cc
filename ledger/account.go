package ledger

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// SubaccountLength is the length in bytes of a subaccount discriminator.
const SubaccountLength = 32

// OwnerRegexp is used to validate account owner identities.
var OwnerRegexp = regexp.MustCompile("^[a-z0-9\\-]{1,64}$")

// Account represents an addressable holder of assets: an owner identity
// along with an optional subaccount discriminator. Accounts are values and
// are never shared by reference.
//
// Accounts are canonical: the subaccount is stored as lowercase hex and an
// absent or all-zero subaccount canonicalizes to the empty string, so that
// two accounts a caller would consider identical always compare equal with
// `==`.
type Account struct {
	Owner      string `json:"owner"`
	Subaccount string `json:"subaccount,omitempty"`
}

// NewAccount constructs a canonical Account from an owner identity and an
// optional raw subaccount.
func NewAccount(
	owner string,
	subaccount []byte,
) Account {
	return Account{
		Owner:      owner,
		Subaccount: canonicalSubaccount(subaccount),
	}
}

// canonicalSubaccount returns the canonical hex representation of a raw
// subaccount. Absent and all-zero subaccounts map to the default (empty)
// subaccount.
func canonicalSubaccount(
	subaccount []byte,
) string {
	allZero := true
	for _, b := range subaccount {
		if b != 0 {
			allZero = false
			break
		}
	}
	if len(subaccount) == 0 || allZero {
		return ""
	}
	return strings.ToLower(hex.EncodeToString(subaccount))
}

// ParseAccount parses the string representation of an account:
// `owner` or `owner:subaccount-hex`.
func ParseAccount(
	address string,
) (*Account, error) {
	c := strings.Split(address, ":")
	if len(c) > 2 {
		return nil, fmt.Errorf("Invalid account address: %s", address)
	}
	if !OwnerRegexp.MatchString(c[0]) {
		return nil, fmt.Errorf("Invalid account owner: %s", c[0])
	}

	account := Account{
		Owner: c[0],
	}
	if len(c) == 2 && c[1] != "" {
		sub, err := hex.DecodeString(strings.ToLower(c[1]))
		if err != nil {
			return nil, fmt.Errorf("Invalid account subaccount: %s", c[1])
		}
		if len(sub) != SubaccountLength {
			return nil, fmt.Errorf(
				"Invalid account subaccount length: %d bytes (expected %d)",
				len(sub), SubaccountLength)
		}
		account.Subaccount = canonicalSubaccount(sub)
	}

	return &account, nil
}

// String returns the string representation of the account.
func (a Account) String() string {
	if a.Subaccount == "" {
		return a.Owner
	}
	return fmt.Sprintf("%s:%s", a.Owner, a.Subaccount)
}

// IsZero returns true if the account is the zero value.
func (a Account) IsZero() bool {
	return a.Owner == ""
}
