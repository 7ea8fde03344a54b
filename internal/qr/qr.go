// Package qr renders an exported identity as the wire payload + PNG image
// pair described in SPEC_FULL §6: "substrate:<ss58 address>:0x<hex genesis
// hash>" encoded into a QR code image.
//
// Grounded on github.com/skip2/go-qrcode for PNG rendering (named, not
// pack-grounded — no QR encoder appears in the retrieved examples; see
// DESIGN.md) and on github.com/vedhavyas/go-subkey's SS58Encode for address
// rendering, the same library already used by internal/deriver (grounded on
// other_examples' Kusama address derivation file, which calls
// subkey.SS58Encode(pubKey, networkFormat) directly).
package qr

import (
	"encoding/hex"
	"fmt"

	"github.com/skip2/go-qrcode"
	"github.com/vedhavyas/go-subkey"

	"github.com/skms-labs/identity-core/internal/identcore"
)

// pngRecoveryLevel trades a bit of image density for tolerance to smudges
// and glare on a handheld signer's camera.
const pngRecoveryLevel = qrcode.Medium

// Payload builds the "substrate:<address>:0x<genesis_hash>" string a
// scanning wallet expects, SS58-encoding publicKey under base58Prefix.
func Payload(publicKey []byte, base58Prefix uint16, genesisHash [32]byte) string {
	address := subkey.SS58Encode(publicKey, uint8(base58Prefix))
	return fmt.Sprintf("substrate:%s:0x%s", address, hex.EncodeToString(genesisHash[:]))
}

// Encode renders publicKey/base58Prefix/genesisHash as a PNG QR code sized
// to size x size pixels.
func Encode(publicKey []byte, base58Prefix uint16, genesisHash [32]byte, size int) ([]byte, error) {
	payload := Payload(publicKey, base58Prefix, genesisHash)
	png, err := qrcode.Encode(payload, pngRecoveryLevel, size)
	if err != nil {
		return nil, identcore.Wrap(identcore.KindQr, payload, err)
	}
	return png, nil
}
