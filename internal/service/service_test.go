package service

import (
	"testing"

	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/kv"
)

// fakeDB is a minimal in-memory implementation of DB (kv.Store +
// kv.SequenceAllocator), used so these end-to-end scenarios run without a
// real bbolt file.
type fakeDB struct {
	trees map[string]map[string][]byte
	seqs  map[string]uint64
}

func newFakeDB() *fakeDB {
	return &fakeDB{trees: make(map[string]map[string][]byte), seqs: make(map[string]uint64)}
}

func (f *fakeDB) Get(tree string, key []byte) ([]byte, bool, error) {
	b, ok := f.trees[tree]
	if !ok {
		return nil, false, nil
	}
	v, ok := b[string(key)]
	return v, ok, nil
}

func (f *fakeDB) Iterate(tree string, fn func(key, value []byte) error) error {
	b, ok := f.trees[tree]
	if !ok {
		return nil
	}
	for k, v := range b {
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDB) Apply(batch *kv.Batch) error {
	for _, op := range batch.Ops {
		b, ok := f.trees[op.Tree]
		if !ok {
			b = make(map[string][]byte)
			f.trees[op.Tree] = b
		}
		if op.Value == nil {
			delete(b, string(op.Key))
			continue
		}
		b[string(op.Key)] = op.Value
	}
	return nil
}

func (f *fakeDB) NextSequence(tree string) (uint64, error) {
	f.seqs[tree]++
	return f.seqs[tree], nil
}

func newBootstrappedService(t *testing.T) *Service {
	t.Helper()
	db := newFakeDB()
	svc := New(db)
	if err := svc.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return svc
}

const aliceFixtureSeed = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

func kusamaNetworkKeyHex(t *testing.T, svc *Service) string {
	t.Helper()
	for _, spec := range DefaultNetworks() {
		if spec.Name == "kusama" {
			return spec.SpecsKey().Hex()
		}
	}
	t.Fatal("kusama not in default network table")
	return ""
}

// TestScenarioCreateSeedThenAddress reproduces the "create a seed, then add
// a bespoke address under it" flow: §8 scenario 1.
func TestScenarioCreateSeedThenAddress(t *testing.T) {
	svc := newBootstrappedService(t)

	if err := svc.ImportSeed("alice", aliceFixtureSeed, keyring.SchemeSr25519); err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}

	kusama := kusamaNetworkKeyHex(t, svc)
	addressKey, err := svc.TryCreateAddress("alice", aliceFixtureSeed, keyring.SchemeSr25519, "//Alice/1", kusama)
	if err != nil {
		t.Fatalf("TryCreateAddress: %v", err)
	}
	if addressKey == "" {
		t.Fatal("expected a non-empty address key")
	}

	entries, err := svc.PrintRelevantIdentities("alice", kusama)
	if err != nil {
		t.Fatalf("PrintRelevantIdentities: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Details.Path == "//Alice/1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected //Alice/1 among alice's kusama identities")
	}
}

// TestScenarioDeleteThenRemoveSeed reproduces deleting a single address
// followed by wiping the whole seed: §8 scenario covering delete_address
// and remove_identities_for_seed.
func TestScenarioDeleteThenRemoveSeed(t *testing.T) {
	svc := newBootstrappedService(t)
	kusama := kusamaNetworkKeyHex(t, svc)

	if err := svc.ImportSeed("alice", aliceFixtureSeed, keyring.SchemeSr25519); err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}
	addressKey, err := svc.TryCreateAddress("alice", aliceFixtureSeed, keyring.SchemeSr25519, "//Alice/2", kusama)
	if err != nil {
		t.Fatalf("TryCreateAddress: %v", err)
	}

	if err := svc.DeleteAddress(addressKey.Hex(), kusama); err != nil {
		t.Fatalf("DeleteAddress: %v", err)
	}
	if _, err := svc.ExportIdentity(addressKey.Hex(), kusama); err == nil {
		t.Fatal("expected ExportIdentity to fail for a deleted address")
	}

	if err := svc.RemoveIdentitiesForSeed("alice"); err != nil {
		t.Fatalf("RemoveIdentitiesForSeed: %v", err)
	}
	all, err := svc.PrintAllIdentities()
	if err != nil {
		t.Fatalf("PrintAllIdentities: %v", err)
	}
	for _, e := range all {
		if e.Details.SeedName == "alice" {
			t.Fatal("expected no alice records after RemoveIdentitiesForSeed")
		}
	}

	events, err := svc.PrintHistory()
	if err != nil {
		t.Fatalf("PrintHistory: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected history events from create/delete/remove")
	}
}

func TestScenarioExportIdentity(t *testing.T) {
	svc := newBootstrappedService(t)
	kusama := kusamaNetworkKeyHex(t, svc)

	if err := svc.ImportSeed("alice", aliceFixtureSeed, keyring.SchemeSr25519); err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}
	addressKey, err := svc.TryCreateAddress("alice", aliceFixtureSeed, keyring.SchemeSr25519, "//kusama", kusama)
	if err != nil {
		t.Fatalf("TryCreateAddress: %v", err)
	}

	exported, err := svc.ExportIdentity(addressKey.Hex(), kusama)
	if err != nil {
		t.Fatalf("ExportIdentity: %v", err)
	}
	if exported.Payload == "" {
		t.Fatal("expected a non-empty QR payload")
	}
	if len(exported.PNG) == 0 {
		t.Fatal("expected a non-empty PNG image")
	}
}

// TestScenarioSuggestNPlusOne reproduces §8 scenario 3: create "//Alice//10"
// under a seed, then suggest_n_plus_one("//Alice", ...) must look past the
// sibling's index and propose "//Alice//11", not "//Alice//0".
func TestScenarioSuggestNPlusOne(t *testing.T) {
	svc := newBootstrappedService(t)
	kusama := kusamaNetworkKeyHex(t, svc)

	if err := svc.ImportSeed("alice", aliceFixtureSeed, keyring.SchemeSr25519); err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}
	if _, err := svc.TryCreateAddress("alice", aliceFixtureSeed, keyring.SchemeSr25519, "//Alice//10", kusama); err != nil {
		t.Fatalf("TryCreateAddress: %v", err)
	}

	got, err := svc.SuggestNPlusOne("//Alice", "alice", kusama)
	if err != nil {
		t.Fatalf("SuggestNPlusOne: %v", err)
	}
	if want := "//Alice//11"; got != want {
		t.Errorf("SuggestNPlusOne(%q) = %q, want %q", "//Alice", got, want)
	}
}

// TestSuggestNPlusOneNoExistingSiblings covers the no-match fallback: with
// no identity under base_path at all, the suggestion defaults to "//0".
func TestSuggestNPlusOneNoExistingSiblings(t *testing.T) {
	svc := newBootstrappedService(t)
	kusama := kusamaNetworkKeyHex(t, svc)

	if err := svc.ImportSeed("alice", aliceFixtureSeed, keyring.SchemeSr25519); err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}

	got, err := svc.SuggestNPlusOne("//Alice", "alice", kusama)
	if err != nil {
		t.Fatalf("SuggestNPlusOne: %v", err)
	}
	if want := "//Alice//0"; got != want {
		t.Errorf("SuggestNPlusOne(%q) = %q, want %q", "//Alice", got, want)
	}
}

// TestSuggestPathName reproduces §8 scenario 4's worked examples
// (account_name_suggestions in the original).
func TestSuggestPathName(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"//Alice", "Alice"},
		{"", ""},
		{"//Alice//verifier", "Alice verifier"},
		{"//Alice///password", "Alice"},
		{"//Alice/alias", "Alice (alias)"},
		{"//Alice///password///password", "Alice"},
		{"//Alice//0001", "Alice 1"},
		{"//Alice//(brackets)", "Alice (brackets)"},
		{"//Alice/(brackets)", "Alice ((brackets))"},
		{"//Alice///(brackets)", "Alice"},
		{"/Alice", "(Alice)"},
		{"///password", ""},
	}
	for _, tc := range cases {
		got, err := SuggestPathName(tc.path)
		if err != nil {
			t.Fatalf("SuggestPathName(%q): %v", tc.path, err)
		}
		if got != tc.want {
			t.Errorf("SuggestPathName(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestCheckDerivationFormat(t *testing.T) {
	if !CheckDerivationFormat("//Alice/1") {
		t.Error("expected //Alice/1 to be valid")
	}
	if CheckDerivationFormat("//") {
		t.Error("expected // to be invalid")
	}
}

func TestGuessCapsAtMaxWordsDisplay(t *testing.T) {
	matches := Guess("ab")
	if len(matches) == 0 {
		t.Fatal("expected at least one match for prefix \"ab\"")
	}
	if len(matches) > 8 {
		t.Fatalf("expected at most 8 matches, got %d", len(matches))
	}
	for _, w := range matches {
		if len(w) < 2 || w[:2] != "ab" {
			t.Errorf("match %q does not start with \"ab\"", w)
		}
	}
}

func TestSeedTestFixtures(t *testing.T) {
	svc := newBootstrappedService(t)

	if err := svc.SeedTestFixtures(); err != nil {
		t.Fatalf("SeedTestFixtures: %v", err)
	}

	all, err := svc.PrintAllIdentities()
	if err != nil {
		t.Fatalf("PrintAllIdentities: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected SeedTestFixtures to populate identities")
	}
	for _, e := range all {
		if e.Details.SeedName != "Alice" {
			t.Fatalf("unexpected seed name %q after fixture seeding", e.Details.SeedName)
		}
	}

	events, err := svc.PrintHistory()
	if err != nil {
		t.Fatalf("PrintHistory: %v", err)
	}
	sawWipe := false
	for _, ev := range events {
		if ev.Event == "identities_wiped" {
			sawWipe = true
		}
	}
	if !sawWipe {
		t.Fatal("expected an identities_wiped marker event")
	}
}
