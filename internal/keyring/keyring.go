// Package keyring implements the canonical byte and hex encodings for the
// identity core: signature schemes, MultiSigner, AddressKey and
// NetworkSpecsKey. These are the wire-level keys the identity tree and the
// network specs tree are indexed by.
package keyring

import (
	"encoding/hex"
	"fmt"
)

// Scheme is a signature algorithm family. The numeric value is the wire tag
// embedded in AddressKey and NetworkSpecsKey encodings.
type Scheme uint8

const (
	SchemeEd25519 Scheme = iota
	SchemeSr25519
	SchemeEcdsa
)

// String returns the lowercase encryption name used in history event JSON.
func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSr25519:
		return "sr25519"
	case SchemeEcdsa:
		return "ecdsa"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// ParseScheme accepts the same names Scheme.String produces.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "ed25519":
		return SchemeEd25519, nil
	case "sr25519":
		return SchemeSr25519, nil
	case "ecdsa":
		return SchemeEcdsa, nil
	default:
		return 0, fmt.Errorf("keyring: unknown scheme %q", s)
	}
}

// PublicKeyLen is the expected public key length for the scheme: 32 bytes
// for ed25519/sr25519, 33 bytes (compressed) for ecdsa.
func (s Scheme) PublicKeyLen() int {
	switch s {
	case SchemeEd25519, SchemeSr25519:
		return 32
	case SchemeEcdsa:
		return 33
	default:
		return 0
	}
}

func (s Scheme) valid() bool {
	return s == SchemeEd25519 || s == SchemeSr25519 || s == SchemeEcdsa
}

// MultiSigner is a scheme-tagged public key.
type MultiSigner struct {
	Scheme Scheme
	Public []byte
}

// NewMultiSigner validates the public key length against the scheme before
// constructing the value.
func NewMultiSigner(scheme Scheme, public []byte) (MultiSigner, error) {
	if !scheme.valid() {
		return MultiSigner{}, fmt.Errorf("keyring: invalid scheme %d", uint8(scheme))
	}
	if len(public) != scheme.PublicKeyLen() {
		return MultiSigner{}, fmt.Errorf("keyring: scheme %s expects a %d-byte public key, got %d", scheme, scheme.PublicKeyLen(), len(public))
	}
	cp := make([]byte, len(public))
	copy(cp, public)
	return MultiSigner{Scheme: scheme, Public: cp}, nil
}

// AddressKey is the canonical identity-tree key: scheme_tag || public_key.
// It is defined over string rather than []byte so that it is directly usable
// as a map key and is comparable with ==, mirroring how the store needs to
// index staged and persisted entries by address key.
type AddressKey string

// NewAddressKey builds the AddressKey for a MultiSigner.
func NewAddressKey(ms MultiSigner) AddressKey {
	buf := make([]byte, 0, 1+len(ms.Public))
	buf = append(buf, byte(ms.Scheme))
	buf = append(buf, ms.Public...)
	return AddressKey(buf)
}

// Bytes returns the raw scheme_tag||public_key encoding.
func (k AddressKey) Bytes() []byte {
	return []byte(k)
}

// Hex returns the lowercase, unprefixed hex form used in the wire API.
func (k AddressKey) Hex() string {
	return hex.EncodeToString(k.Bytes())
}

// AddressKeyFromHex decodes the wire hex form.
func AddressKeyFromHex(s string) (AddressKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("keyring: %q is not hex: %w", s, err)
	}
	if len(b) < 2 {
		return "", fmt.Errorf("keyring: address key too short (%d bytes)", len(b))
	}
	return AddressKey(b), nil
}

// AddressKeyFromParts builds an AddressKey directly from a raw public key
// and scheme, validating the public key length as NewMultiSigner does.
func AddressKeyFromParts(public []byte, scheme Scheme) (AddressKey, error) {
	ms, err := NewMultiSigner(scheme, public)
	if err != nil {
		return "", err
	}
	return NewAddressKey(ms), nil
}

// Scheme returns the scheme tag embedded in the key.
func (k AddressKey) Scheme() (Scheme, error) {
	if len(k) == 0 {
		return 0, fmt.Errorf("keyring: empty address key")
	}
	s := Scheme(k[0])
	if !s.valid() {
		return 0, fmt.Errorf("keyring: address key carries unknown scheme tag %d", k[0])
	}
	return s, nil
}

// PublicKey returns the public key bytes embedded after the scheme tag.
func (k AddressKey) PublicKey() []byte {
	return []byte(k)[1:]
}

// MultiSigner reconstructs the tagged public key from the address key.
func (k AddressKey) MultiSigner() (MultiSigner, error) {
	scheme, err := k.Scheme()
	if err != nil {
		return MultiSigner{}, err
	}
	return NewMultiSigner(scheme, k.PublicKey())
}

// GenesisHashLen is the fixed length of a network genesis hash.
const GenesisHashLen = 32

// networkSpecsKeyPrefix is the leading tag byte of every NetworkSpecsKey.
const networkSpecsKeyPrefix = 0x01

// NetworkSpecsKey is the canonical network-tree key:
// 0x01 || scheme_tag || 32-byte genesis hash (34 bytes total).
type NetworkSpecsKey string

// NewNetworkSpecsKey builds a NetworkSpecsKey for a scheme and genesis hash.
func NewNetworkSpecsKey(scheme Scheme, genesisHash [GenesisHashLen]byte) NetworkSpecsKey {
	buf := make([]byte, 0, 2+GenesisHashLen)
	buf = append(buf, networkSpecsKeyPrefix, byte(scheme))
	buf = append(buf, genesisHash[:]...)
	return NetworkSpecsKey(buf)
}

// Bytes returns the raw 34-byte encoding.
func (k NetworkSpecsKey) Bytes() []byte {
	return []byte(k)
}

// Hex returns the lowercase, unprefixed hex form.
func (k NetworkSpecsKey) Hex() string {
	return hex.EncodeToString(k.Bytes())
}

// NetworkSpecsKeyFromHex decodes and validates the wire hex form.
func NetworkSpecsKeyFromHex(s string) (NetworkSpecsKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("keyring: %q is not hex: %w", s, err)
	}
	if len(b) != 2+GenesisHashLen {
		return "", fmt.Errorf("keyring: network specs key must be %d bytes, got %d", 2+GenesisHashLen, len(b))
	}
	if b[0] != networkSpecsKeyPrefix {
		return "", fmt.Errorf("keyring: network specs key has wrong prefix byte 0x%02x", b[0])
	}
	s2 := Scheme(b[1])
	if !s2.valid() {
		return "", fmt.Errorf("keyring: network specs key carries unknown scheme tag %d", b[1])
	}
	return NetworkSpecsKey(b), nil
}

// Scheme returns the scheme tag embedded in the key.
func (k NetworkSpecsKey) Scheme() Scheme {
	return Scheme(k[1])
}

// GenesisHash returns the 32-byte genesis hash embedded in the key.
func (k NetworkSpecsKey) GenesisHash() [GenesisHashLen]byte {
	var out [GenesisHashLen]byte
	copy(out[:], []byte(k)[2:])
	return out
}
