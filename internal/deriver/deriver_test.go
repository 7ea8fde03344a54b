package deriver

import (
	"encoding/hex"
	"testing"

	"github.com/skms-labs/identity-core/internal/keyring"
)

const aliceSeed = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

func TestDeriveTable(t *testing.T) {
	// The root and //kusama expected public keys are the test vectors listed
	// in SPEC_FULL §8 (lifted from original_source's history_with_identities
	// test); the polkadot, westend and rococo vectors are not listed there.
	cases := []struct {
		name   string
		path   string
		scheme keyring.Scheme
		want   string
	}{
		{name: "root", path: "", scheme: keyring.SchemeSr25519, want: "46ebddef8cd9bb167dc30878d7113b7e168e6f0646beffd77d69d39bad76b47a"},
		{name: "kusama", path: "//kusama", scheme: keyring.SchemeSr25519, want: "64a31235d4bf9b37cfed3afa8aa60754675f9c4915430454d365c05112784d05"},
		{name: "polkadot", path: "//polkadot", scheme: keyring.SchemeSr25519, want: "f606519cb8726753885cd4d0f518804a69a5e0badf36fee70feadd8044081730"},
		{name: "westend", path: "//westend", scheme: keyring.SchemeSr25519, want: "3efeca331d646d8a2986374bb3bb8d6e9e3cfcdd7c45c2b69104fab5d61d3f34"},
		{name: "rococo", path: "//rococo", scheme: keyring.SchemeSr25519, want: "96129dcebc2e10f644e81fcf4269a663e521330084b1e447369087dec8017e04"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			public, addressKey, err := Derive(aliceSeed, tc.path, tc.scheme)
			if err != nil {
				t.Fatalf("Derive(%q) error: %v", tc.path, err)
			}
			got := hex.EncodeToString(public)
			if got != tc.want {
				t.Errorf("Derive(%q) public key = %s, want %s", tc.path, got, tc.want)
			}
			gotScheme, err := addressKey.Scheme()
			if err != nil || gotScheme != tc.scheme {
				t.Errorf("address key scheme = %v (err %v), want %v", gotScheme, err, tc.scheme)
			}
		})
	}
}

func TestDeriveDeterministic(t *testing.T) {
	pub1, key1, err := Derive(aliceSeed, "//Alice", keyring.SchemeSr25519)
	if err != nil {
		t.Fatalf("first derive: %v", err)
	}
	pub2, key2, err := Derive(aliceSeed, "//Alice", keyring.SchemeSr25519)
	if err != nil {
		t.Fatalf("second derive: %v", err)
	}
	if hex.EncodeToString(pub1) != hex.EncodeToString(pub2) {
		t.Errorf("public keys differ across calls: %x vs %x", pub1, pub2)
	}
	if key1 != key2 {
		t.Errorf("address keys differ across calls: %s vs %s", key1.Hex(), key2.Hex())
	}
}

func TestDeriveInvalidPath(t *testing.T) {
	if _, _, err := Derive(aliceSeed, "//", keyring.SchemeSr25519); err == nil {
		t.Fatal("expected error deriving with an empty hard segment")
	}
}

func TestDeriveWipesBuffer(t *testing.T) {
	// Exercises the zeroize-on-every-exit-path contract by injecting a
	// buffer we can inspect after Derive returns.
	var captured []byte
	origWipe := wipe
	wipe = func(b []byte) {
		captured = b
		origWipe(b)
	}
	defer func() { wipe = origWipe }()

	if _, _, err := Derive(aliceSeed, "//Alice", keyring.SchemeSr25519); err != nil {
		t.Fatalf("derive: %v", err)
	}
	for i, b := range captured {
		if b != 0 {
			t.Fatalf("captured buffer not all zero at index %d: %x", i, captured)
		}
	}
}
