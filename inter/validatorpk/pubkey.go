// Package validatorpk handles the consensus public keys that the validator
// registry reports for registered operators. A key is carried as an opaque
// (type, raw bytes) pair so the genesis fragment can rank validators by a
// stable string form without caring which signature scheme the destination
// chain's consensus uses.
package validatorpk

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// PubKey represents a validator's consensus public key.
// It decouples the key type from the raw bytes, so both secp256k1 and
// ed25519 consensus keys flow through the pipeline unchanged.
type PubKey struct {
	// Type identifies the signature scheme of the key.
	Type uint8
	// Raw contains the actual public key bytes.
	Raw []byte
}

// Types defines the supported public key type constants. The byte values
// are on-wire type prefixes, chosen outside the range of valid compressed
// or uncompressed point markers.
var Types = struct {
	Secp256k1 uint8
	Ed25519   uint8
}{
	Secp256k1: 0xc0,
	Ed25519:   0xc1,
}

// Empty checks if the public key is uninitialized.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// String returns the "0x"-prefixed hex form: type byte followed by the raw
// key bytes. This string is the tie-break ranking key for validators with
// equal voting power, so it must be stable across runs.
func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Bytes returns the flat byte representation: [Type byte] + [Raw bytes...].
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy creates a deep copy of the PubKey. Raw is a slice, so a plain
// assignment would share the underlying memory.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// FromString parses a hex string (with or without "0x" prefix) into a PubKey.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// FromBytes reconstructs a PubKey from a flat byte slice. The first byte is
// the Type, the rest is the raw key. Returns an error on empty input.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, errors.New("empty pubkey")
	}
	return PubKey{b[0], b[1:]}, nil
}

// MarshalText implements encoding.TextMarshaler, so keys embed into the
// genesis fragment as hex strings.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
