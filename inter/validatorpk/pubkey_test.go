// Unit tests for the validatorpk package: conversions between binary, hex
// string, and object representations of consensus public keys, and JSON
// embedding via the Text(Un)Marshaler implementations.
package validatorpk

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// TestFromString verifies that a hex string (with or without 0x prefix)
// parses into the expected PubKey.
func TestFromString(t *testing.T) {
	require := require.New(t)

	exp := PubKey{
		Type: Types.Ed25519,
		Raw:  common.FromHex("8e7a8f2c1d3b4a5968778695a4b3c2d1e0f1a2b3c4d5e6f708192a3b4c5d6e7f"),
	}

	// Without "0x" prefix.
	{
		got, err := FromString("c18e7a8f2c1d3b4a5968778695a4b3c2d1e0f1a2b3c4d5e6f708192a3b4c5d6e7f")
		require.NoError(err)
		require.Equal(exp, got)
	}

	// With "0x" prefix.
	{
		got, err := FromString("0xc18e7a8f2c1d3b4a5968778695a4b3c2d1e0f1a2b3c4d5e6f708192a3b4c5d6e7f")
		require.NoError(err)
		require.Equal(exp, got)
	}

	// Empty string must error.
	{
		_, err := FromString("")
		require.Error(err)
	}

	// "0x" only (empty bytes) must error.
	{
		_, err := FromString("0x")
		require.Error(err)
	}

	// Invalid hex characters decode to empty bytes and must error.
	{
		_, err := FromString("-")
		require.Error(err)
	}
}

// TestString verifies the canonical "0x" + type + raw hex form. The String
// form is what the genesis builder sorts on for equal-power validators, so
// it is pinned exactly here.
func TestString(t *testing.T) {
	require := require.New(t)

	pk := PubKey{
		Type: Types.Secp256k1,
		Raw:  common.FromHex("03e32a85a9a8fcdbeff0c273b2ae256a2a7a7dc3a10a79b39f302f749de52cc637"),
	}
	require.Equal("0xc003e32a85a9a8fcdbeff0c273b2ae256a2a7a7dc3a10a79b39f302f749de52cc637", pk.String())
}

// TestRoundTrip verifies Bytes/FromBytes are inverses.
func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	exp := PubKey{
		Type: Types.Ed25519,
		Raw:  common.FromHex("aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"),
	}
	got, err := FromBytes(exp.Bytes())
	require.NoError(err)
	require.Equal(exp, got)
}

// TestCopy verifies Copy produces an independent Raw slice.
func TestCopy(t *testing.T) {
	require := require.New(t)

	orig := PubKey{Type: Types.Ed25519, Raw: []byte{1, 2, 3}}
	cp := orig.Copy()
	require.Equal(orig, cp)

	cp.Raw[0] = 0xff
	require.Equal(byte(1), orig.Raw[0], "copy must not share memory with the original")
}

// TestEmpty verifies Empty only reports uninitialized keys.
func TestEmpty(t *testing.T) {
	require := require.New(t)

	require.True(PubKey{}.Empty())
	require.False(PubKey{Type: Types.Ed25519}.Empty())
	require.False(PubKey{Type: 0, Raw: []byte{1}}.Empty())
}

// TestJSON verifies that a PubKey embedded in a struct marshals to its hex
// string and unmarshals back to an equal value.
func TestJSON(t *testing.T) {
	require := require.New(t)

	type wrapper struct {
		Key PubKey `json:"key"`
	}

	in := wrapper{Key: PubKey{
		Type: Types.Ed25519,
		Raw:  common.FromHex("8e7a8f2c1d3b4a5968778695a4b3c2d1e0f1a2b3c4d5e6f708192a3b4c5d6e7f"),
	}}

	raw, err := json.Marshal(&in)
	require.NoError(err)
	require.Contains(string(raw), in.Key.String())

	var out wrapper
	require.NoError(json.Unmarshal(raw, &out))
	require.Equal(in, out)
}
