package bootstrap

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/txscript"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/params"
	"github.com/rony4d/go-stakegen/utils/fast"
)

// Payload geometry. Both protocol variants embed the same logical pair:
// a 20-byte destination-chain address and a 41-character bech32 validator
// operator address.
const (
	// destAddrLen is the raw byte length of a destination-chain address.
	destAddrLen = common.AddressLength

	// utxoPayloadLen is the pushed data length on UTXO chains:
	// 20 raw destination bytes + 41 ASCII validator bytes.
	utxoPayloadLen = destAddrLen + params.ValidatorAddrLen

	// utxoScriptLen is the full data-carrier script length:
	// OP_RETURN + direct-push length byte + payload.
	utxoScriptLen = 2 + utxoPayloadLen

	// ledgerPayloadMin is the minimum memo data length on ledger chains:
	// 40 ASCII-hex destination chars + 41 ASCII validator bytes.
	ledgerPayloadMin = 2*destAddrLen + params.ValidatorAddrLen
)

// PayloadDecoder extracts the candidate (destination address, validator
// address) pair from one data-carrying field of a transaction. This is the
// single capability that differs between source-chain protocol variants;
// everything else in validation is chain-neutral.
//
// Implementations are pure: no side effects, and every failure is a typed
// *RejectError (never a panic), since payloads are adversarial input.
type PayloadDecoder interface {
	DecodePayload(p inter.Payload) (common.Address, string, error)
}

// DecoderFor selects the decoder for a chain-protocol variant.
func DecoderFor(kind inter.ChainKind) (PayloadDecoder, error) {
	switch kind {
	case inter.KindUTXO:
		return utxoDecoder{}, nil
	case inter.KindLedger:
		return ledgerDecoder{}, nil
	default:
		return nil, reject(ReasonMalformedPayload, "no decoder for chain kind %d", kind)
	}
}

// utxoDecoder parses the OP_RETURN stake payload of Bitcoin-style chains.
//
// Exact layout, no deviations tolerated:
//
//	[0]      OP_RETURN (0x6a)
//	[1]      OP_DATA_61 (0x3d), direct push of the 61-byte payload
//	[2:22)   destination-chain address, 20 raw bytes
//	[22:63)  validator operator address, 41 ASCII bech32 bytes
type utxoDecoder struct{}

func (utxoDecoder) DecodePayload(p inter.Payload) (common.Address, string, error) {
	script := p.Data
	if len(script) != utxoScriptLen {
		return common.Address{}, "", reject(ReasonMalformedPayload,
			"script length %d, want %d", len(script), utxoScriptLen)
	}

	// Length was checked above, so the cursor cannot run past the end.
	r := fast.NewReader(script)
	if op := r.ReadByte(); op != txscript.OP_RETURN {
		return common.Address{}, "", reject(ReasonMalformedPayload,
			"leading opcode 0x%02x, want OP_RETURN", op)
	}
	if push := r.ReadByte(); push != txscript.OP_DATA_61 {
		return common.Address{}, "", reject(ReasonMalformedPayload,
			"push opcode 0x%02x, want OP_DATA_61", push)
	}

	dest := common.BytesToAddress(r.Read(destAddrLen))
	validator, err := ParseValidatorAddress(string(r.Read(params.ValidatorAddrLen)))
	if err != nil {
		return common.Address{}, "", err
	}
	return dest, validator, nil
}

// ledgerDecoder parses the tagged-memo stake payload of XRP-style chains.
//
// The memo type must equal the fixed stake marker. The memo data is ASCII:
// its trailing 41 bytes are the validator operator address and the 40 hex
// characters immediately before them are the destination-chain address.
// Anything preceding those 81 bytes is ignored (forward compatibility with
// versioned prefixes).
type ledgerDecoder struct{}

func (ledgerDecoder) DecodePayload(p inter.Payload) (common.Address, string, error) {
	if p.Tag != params.LedgerStakeMemoType {
		return common.Address{}, "", reject(ReasonMalformedPayload,
			"memo type %q, want %q", p.Tag, params.LedgerStakeMemoType)
	}
	if len(p.Data) < ledgerPayloadMin {
		return common.Address{}, "", reject(ReasonMalformedPayload,
			"memo data length %d, want >= %d", len(p.Data), ledgerPayloadMin)
	}

	valStart := len(p.Data) - params.ValidatorAddrLen
	destStart := valStart - 2*destAddrLen

	destBytes, err := hex.DecodeString(string(p.Data[destStart:valStart]))
	if err != nil {
		return common.Address{}, "", reject(ReasonInvalidAddress,
			"destination address is not hex: %v", err)
	}
	dest := common.BytesToAddress(destBytes)

	validator, perr := ParseValidatorAddress(string(p.Data[valStart:]))
	if perr != nil {
		return common.Address{}, "", perr
	}
	return dest, validator, nil
}

// ParseValidatorAddress validates the checksummed text encoding of a
// validator operator address: exactly 41 characters, the fixed
// human-readable prefix, a valid bech32 checksum, and a 20-byte payload.
// It returns the canonical (lower-case) form.
func ParseValidatorAddress(text string) (string, error) {
	if len(text) != params.ValidatorAddrLen {
		return "", reject(ReasonInvalidAddress,
			"validator address length %d, want %d", len(text), params.ValidatorAddrLen)
	}
	hrp, data, err := bech32.Decode(text)
	if err != nil {
		return "", reject(ReasonInvalidAddress, "validator address: %v", err)
	}
	if hrp != params.ValidatorHRP {
		return "", reject(ReasonInvalidAddress,
			"validator address prefix %q, want %q", hrp, params.ValidatorHRP)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil || len(payload) != destAddrLen {
		return "", reject(ReasonInvalidAddress,
			"validator address payload is not %d bytes", destAddrLen)
	}
	// bech32 is case-insensitive (all-lower or all-upper); lower-case is
	// the canonical form recorded in bindings and the fragment.
	return strings.ToLower(text), nil
}

// ValidatorAddressBytes returns the 20-byte payload of an already-valid
// operator address, for callers (like the registry client) that need the
// binary form. Errors mirror ParseValidatorAddress.
func ValidatorAddressBytes(text string) (common.Address, error) {
	if _, err := ParseValidatorAddress(text); err != nil {
		return common.Address{}, err
	}
	_, data, _ := bech32.Decode(text)
	payload, _ := bech32.ConvertBits(data, 5, 8, false)
	return common.BytesToAddress(payload), nil
}

// EncodeStakeScript builds the exact OP_RETURN script a UTXO-chain staker
// must attach to a bootstrap deposit. The inverse of utxoDecoder; used by
// the payload subcommand and by tests.
func EncodeStakeScript(dest common.Address, validator string) ([]byte, error) {
	canonical, err := ParseValidatorAddress(validator)
	if err != nil {
		return nil, err
	}
	w := fast.NewWriter(make([]byte, 0, utxoScriptLen))
	w.WriteByte(txscript.OP_RETURN)
	w.WriteByte(txscript.OP_DATA_61)
	w.Write(dest.Bytes())
	w.Write([]byte(canonical))
	return w.Bytes(), nil
}

// EncodeStakeMemo builds the memo data a ledger-chain staker must attach:
// bare destination hex (no 0x) followed by the operator address. The memo
// type must be params.LedgerStakeMemoType.
func EncodeStakeMemo(dest common.Address, validator string) ([]byte, error) {
	canonical, err := ParseValidatorAddress(validator)
	if err != nil {
		return nil, err
	}
	w := fast.NewWriter(make([]byte, 0, ledgerPayloadMin))
	w.Write([]byte(hex.EncodeToString(dest.Bytes())))
	w.Write([]byte(canonical))
	return w.Bytes(), nil
}
