// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in  string
		err bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"0X7567D83B7B8D80ADDCB281A71D54FC7B3364FFED", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ff", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseAddress(tt.in)
			if tt.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())

	// value fields encode as strings too
	data, err = json.Marshal(struct{ A Address }{addr})
	require.NoError(t, err)
	assert.Equal(t, `{"A":"`+addr.String()+`"}`, string(data))

	text, err := addr.MarshalText()
	require.NoError(t, err)
	decoded = Address{}
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("0x1234")))
}

func TestBlake2b(t *testing.T) {
	single := Blake2b([]byte("foobar"))
	multi := Blake2b([]byte("foo"), []byte("bar"))
	assert.Equal(t, single, multi)
	assert.Equal(t, single, Blake2b([]byte("foo"), []byte("b"), []byte("ar")))
	assert.NotEqual(t, single, Keccak256([]byte("foobar")))
}

func TestProgramIDs(t *testing.T) {
	assert.NotEqual(t, StakingProgramID, TokenProgramID)
	assert.False(t, StakingProgramID.IsZero())
}
