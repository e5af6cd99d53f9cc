package functional

import (
	"net/url"
	"testing"

	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintToken(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	alice := ledger.Account{Owner: "alice"}

	status, raw := m.Post(t, m.Owner, "/tokens", url.Values{
		"id":       {"1"},
		"to":       {"alice"},
		"metadata": {`{"name":{"text":"First"}}`},
	})
	assert.Equal(t, 201, status)

	var mint ledger.MintResult
	require.NoError(t, raw.Extract("mint", &mint))
	require.Nil(t, mint.Err)
	assert.Equal(t, int64(0), *mint.Block)

	status, raw = m.Get(t, "/tokens/1")
	assert.Equal(t, 200, status)

	var token ledger.TokenResource
	require.NoError(t, raw.Extract("token", &token))
	assert.Equal(t, int64(1), token.ID)
	assert.Equal(t, alice.String(), token.Owner)
	require.Contains(t, token.Metadata, "name")
	assert.Equal(t, "First", *token.Metadata["name"].Text)
}

func TestMintTokenMetadataValues(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	status, _ := m.Post(t, m.Owner, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
		"metadata": {`{` +
			`"name":{"text":"First"},` +
			`"rarity":{"nat":3},` +
			`"offset":{"int":-7},` +
			`"thumb":{"blob":"AQID"}}`},
	})
	assert.Equal(t, 201, status)

	// Each tagged value round-trips through storage.
	_, raw := m.Get(t, "/tokens/1")
	var token ledger.TokenResource
	require.NoError(t, raw.Extract("token", &token))
	assert.Equal(t, ledger.TextValue("First"), token.Metadata["name"])
	assert.Equal(t, ledger.NatValue(3), token.Metadata["rarity"])
	assert.Equal(t, ledger.IntValue(-7), token.Metadata["offset"])
	assert.Equal(t, ledger.BlobValue([]byte{1, 2, 3}), token.Metadata["thumb"])
}

func TestMintTokenRequiresCaller(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	status, _ := m.Post(t, ledger.Account{}, "/tokens", url.Values{
		"id": {"1"},
		"to": {"alice"},
	})
	assert.Equal(t, 400, status)
}

func TestMintTokenUnauthorized(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{})
	defer m.Close()

	mallory := ledger.Account{Owner: "mallory"}

	status, raw := m.Post(t, mallory, "/tokens", url.Values{
		"id": {"1"},
		"to": {"mallory"},
	})
	assert.Equal(t, 200, status)

	var mint ledger.MintResult
	require.NoError(t, raw.Extract("mint", &mint))
	require.NotNil(t, mint.Err)
	assert.Equal(t, ledger.ErrUnauthorized, mint.Err.Code)

	status, _ = m.Get(t, "/tokens/1")
	assert.Equal(t, 404, status)
}

func TestMintTokenOpenMint(
	t *testing.T,
) {
	m := test.CreateLedger(t, test.Setup{OpenMint: true})
	defer m.Close()

	anyone := ledger.Account{Owner: "anyone"}

	status, raw := m.Post(t, anyone, "/tokens", url.Values{
		"id": {"7"},
		"to": {"anyone"},
	})
	assert.Equal(t, 201, status)

	var mint ledger.MintResult
	require.NoError(t, raw.Extract("mint", &mint))
	require.Nil(t, mint.Err)
}
