package ledger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAccountCanonicalization(
	t *testing.T,
) {
	sub := bytes.Repeat([]byte{0}, SubaccountLength)

	// An absent subaccount and an explicit all-zero subaccount canonicalize
	// to the same account.
	assert.Equal(t, NewAccount("alice", nil), NewAccount("alice", sub))
	assert.Equal(t, "alice", NewAccount("alice", sub).String())

	sub[31] = 0x2a
	a := NewAccount("alice", sub)
	assert.NotEqual(t, NewAccount("alice", nil), a)
	assert.Equal(t,
		"alice:000000000000000000000000000000000000000000000000000000000000002a",
		a.String())
}

func TestParseAccount(
	t *testing.T,
) {
	a, err := ParseAccount("alice")
	assert.Nil(t, err)
	assert.Equal(t, Account{Owner: "alice"}, *a)

	a, err = ParseAccount(
		"bob:000000000000000000000000000000000000000000000000000000000000002A")
	assert.Nil(t, err)
	assert.Equal(t,
		"bob:000000000000000000000000000000000000000000000000000000000000002a",
		a.String())

	// All-zero explicit subaccount parses to the default subaccount.
	a, err = ParseAccount(
		"bob:0000000000000000000000000000000000000000000000000000000000000000")
	assert.Nil(t, err)
	assert.Equal(t, Account{Owner: "bob"}, *a)

	_, err = ParseAccount("Bob")
	assert.NotNil(t, err)
	_, err = ParseAccount("bob:2a")
	assert.NotNil(t, err)
	_, err = ParseAccount("bob:zz")
	assert.NotNil(t, err)
	_, err = ParseAccount("bob:2a:2a")
	assert.NotNil(t, err)
}
