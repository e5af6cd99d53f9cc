package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(
	t *testing.T,
) {
	seen := map[string]bool{}
	for i := 0; i < 128; i++ {
		tk := New("tx")
		assert.True(t, strings.HasPrefix(tk, "tx_"))
		assert.Equal(t, len("tx_")+tokenLength, len(tk))
		assert.False(t, seen[tk])
		seen[tk] = true
	}
}
