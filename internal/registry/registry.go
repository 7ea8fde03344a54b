// Package registry implements component G (SPEC_FULL §4.G): a concrete,
// seedable NetworkSpecs table backing SPECSTREE. The four well-known
// networks and their genesis hashes are taken directly from
// original_source/rust/db_handling/src/identities.rs's
// history_with_identities test fixture, so derivation test vectors (the
// root and //network public keys in SPEC_FULL §8) reproduce exactly.
package registry

import (
	"encoding/hex"
	"fmt"

	"github.com/skms-labs/identity-core/internal/constants"
	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/kv"
	"github.com/skms-labs/identity-core/internal/records"
)

func mustHash(hexStr string) [32]byte {
	b, err := hex.DecodeString(hexStr)
	if err != nil || len(b) != 32 {
		panic(fmt.Sprintf("registry: bad genesis hash literal %q", hexStr))
	}
	var out [32]byte
	copy(out[:], b)
	return out
}

// DefaultNetworkSpecs returns the four well-known sr25519 networks used to
// bring up a fresh database.
func DefaultNetworkSpecs() []records.NetworkSpecs {
	return []records.NetworkSpecs{
		{
			GenesisHash:  mustHash("91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"),
			Scheme:       keyring.SchemeSr25519,
			Base58Prefix: 0,
			DefaultPath:  "//polkadot",
			Name:         "polkadot",
		},
		{
			GenesisHash:  mustHash("b0a8d493285c2df73290dfb7e61f870f17b41801197a149ca93654499ea3dafe"),
			Scheme:       keyring.SchemeSr25519,
			Base58Prefix: 2,
			DefaultPath:  "//kusama",
			Name:         "kusama",
		},
		{
			GenesisHash:  mustHash("e143f23803ac50e8f6f8e62695d1ce9e4e1d68aa36c1cd2cfd15340213f3423e"),
			Scheme:       keyring.SchemeSr25519,
			Base58Prefix: 42,
			DefaultPath:  "//westend",
			Name:         "westend",
		},
		{
			GenesisHash:  mustHash("037f5f3c8e67b314062025fc886fcd6238ea25a4a9b45dce8d246815c9ebe770"),
			Scheme:       keyring.SchemeSr25519,
			Base58Prefix: 42,
			DefaultPath:  "//rococo",
			Name:         "rococo",
		},
	}
}

// Seed stages an insert for every spec into batch, so a fresh database can
// be bootstrapped by applying that batch (Service.Bootstrap applies it
// directly with the store's Apply).
func Seed(batch *kv.Batch, specs []records.NetworkSpecs) {
	for i := range specs {
		s := specs[i]
		batch.Put(constants.SPECSTREE, s.SpecsKey().Bytes(), s.Encode())
	}
}

// Get fetches a single NetworkSpecs by its hex-encoded NetworkSpecsKey.
func Get(r kv.Reader, networkKeyHex string) (*records.NetworkSpecs, keyring.NetworkSpecsKey, error) {
	key, err := keyring.NetworkSpecsKeyFromHex(networkKeyHex)
	if err != nil {
		return nil, "", err
	}
	value, found, err := r.Get(constants.SPECSTREE, key.Bytes())
	if err != nil {
		return nil, key, err
	}
	if !found {
		return nil, key, fmt.Errorf("registry: no network specs for key %s", networkKeyHex)
	}
	specs, err := records.DecodeNetworkSpecs(value)
	if err != nil {
		return nil, key, err
	}
	return specs, key, nil
}

// All reads every network specs record, in the tree's byte-lexicographic
// key order.
func All(r kv.Reader) ([]*records.NetworkSpecs, error) {
	var out []*records.NetworkSpecs
	err := r.Iterate(constants.SPECSTREE, func(_, value []byte) error {
		specs, err := records.DecodeNetworkSpecs(value)
		if err != nil {
			return err
		}
		out = append(out, specs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
