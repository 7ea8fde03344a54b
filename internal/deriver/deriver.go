// Package deriver implements component B (SPEC_FULL §4.B): turning a
// (seed_phrase, full_path, scheme) triple into a public key and AddressKey.
//
// Grounded on github.com/vedhavyas/go-subkey, the substrate-compatible
// derivation library retrieved alongside this spec (see
// other_examples "...address-kusama.go.go", which derives a Kusama sr25519
// key with the same library's Scheme/DeriveKeyPair shape). subkey.DeriveKeyPair
// parses the same "//hard/soft///password" grammar sp_core::Pair::from_string
// implements, which is exactly what SPEC_FULL §4.B's from_string primitive
// names.
package deriver

import (
	"github.com/vedhavyas/go-subkey"
	"github.com/vedhavyas/go-subkey/ecdsa"
	"github.com/vedhavyas/go-subkey/ed25519"
	"github.com/vedhavyas/go-subkey/sr25519"

	"github.com/skms-labs/identity-core/internal/identcore"
	"github.com/skms-labs/identity-core/internal/keyring"
)

func schemeImpl(scheme keyring.Scheme) (subkey.Scheme, error) {
	switch scheme {
	case keyring.SchemeEd25519:
		return &ed25519.Scheme{}, nil
	case keyring.SchemeSr25519:
		return &sr25519.Scheme{}, nil
	case keyring.SchemeEcdsa:
		return &ecdsa.Scheme{}, nil
	default:
		return nil, identcore.New(identcore.KindSecretString, "unknown scheme")
	}
}

// Derive forms seed_phrase||full_path in a single owned buffer, hands it to
// the scheme's substrate URI parser, and wipes the buffer on every exit
// path. The go-subkey API takes the URI as a string, which in Go means a
// second, immutable copy briefly exists inside the library call — strings
// cannot be zeroed after the fact. That residual copy is a limitation of
// building on this library rather than a raw FFI binding; the owned []byte
// this function controls is always wiped.
func Derive(seedPhrase, fullPath string, scheme keyring.Scheme) (publicKey []byte, addressKey keyring.AddressKey, err error) {
	impl, err := schemeImpl(scheme)
	if err != nil {
		return nil, "", err
	}

	buf := make([]byte, 0, len(seedPhrase)+len(fullPath))
	buf = append(buf, seedPhrase...)
	buf = append(buf, fullPath...)
	defer wipe(buf)

	pair, derr := subkey.DeriveKeyPair(impl, string(buf))
	if derr != nil {
		return nil, "", identcore.Wrap(identcore.KindSecretString, scheme.String(), derr)
	}

	public := pair.Public()
	ms, merr := keyring.NewMultiSigner(scheme, public)
	if merr != nil {
		return nil, "", identcore.Wrap(identcore.KindSecretString, scheme.String(), merr)
	}
	return public, keyring.NewAddressKey(ms), nil
}

// wipe is a package variable rather than a plain function so tests can
// observe that the derivation buffer is actually zeroed on every exit path.
var wipe = func(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
