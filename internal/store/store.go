// Package store implements component C (SPEC_FULL §4.C): the
// derive-and-merge algorithm that is the heart of the identity core. It
// turns a seed phrase plus a derivation path into a persisted AddressDetails
// record, merging into an existing record when one already covers the same
// AddressKey, and produces the append-only history events that go with
// every mutation.
//
// Grounded on original_source/rust/db_handling/src/identities.rs's
// create_address, populate_addresses, prepare_delete_address and
// remove_identities_for_seed. Every exported function here takes a kv.Reader
// and a *Staging rather than a kv.Store: callers run a whole top-level
// operation (which may call CreateAddress many times) against one Staging,
// then hand its Batch() and Events to the committer (internal/txn) to apply
// atomically alongside the history log.
package store

import (
	"fmt"
	"sort"

	"github.com/skms-labs/identity-core/internal/constants"
	"github.com/skms-labs/identity-core/internal/derivation"
	"github.com/skms-labs/identity-core/internal/deriver"
	"github.com/skms-labs/identity-core/internal/history"
	"github.com/skms-labs/identity-core/internal/identcore"
	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/kv"
	"github.com/skms-labs/identity-core/internal/records"
)

// SeedObject bundles the secret material and scheme a derivation runs
// under. SeedPhrase is never logged or persisted; only its derived public
// keys and AddressKeys are.
type SeedObject struct {
	SeedName   string
	SeedPhrase string
	Scheme     keyring.Scheme
}

// Entry pairs a derived signer with its persisted record, the shape every
// read operation returns.
type Entry struct {
	MultiSigner keyring.MultiSigner
	Details     *records.AddressDetails
}

// lookup resolves key against the staging area first, then the persisted
// tree, returning found=false if it exists in neither (or is staged for
// deletion).
func lookup(r kv.Reader, staging *Staging, key keyring.AddressKey) (*records.AddressDetails, bool, error) {
	if staging != nil {
		if d, ok := staging.Get(key); ok {
			return d, true, nil
		}
		if staging.IsDeleted(key) {
			return nil, false, nil
		}
	}
	value, found, err := r.Get(constants.ADDRTREE, key.Bytes())
	if err != nil {
		return nil, false, identcore.Wrap(identcore.KindDbInternal, string(key), err)
	}
	if !found {
		return nil, false, nil
	}
	details, err := records.DecodeAddressDetails(value)
	if err != nil {
		return nil, false, identcore.Wrap(identcore.KindDbInternal, string(key), err)
	}
	return details, true, nil
}

// collectAll merges the persisted ADDRTREE with whatever staging currently
// holds: staged deletes win over persisted entries, staged puts win over
// persisted entries, everything else is read straight from the store.
func collectAll(r kv.Reader, staging *Staging) (map[keyring.AddressKey]*records.AddressDetails, error) {
	out := make(map[keyring.AddressKey]*records.AddressDetails)
	err := r.Iterate(constants.ADDRTREE, func(k, v []byte) error {
		details, err := records.DecodeAddressDetails(v)
		if err != nil {
			return err
		}
		out[keyring.AddressKey(k)] = details
		return nil
	})
	if err != nil {
		return nil, identcore.Wrap(identcore.KindDbInternal, constants.ADDRTREE, err)
	}
	if staging != nil {
		for key := range out {
			if staging.IsDeleted(key) {
				delete(out, key)
			}
		}
		for key, d := range staging.byKey {
			out[key] = d
		}
	}
	return out, nil
}

func sortedKeys(m map[keyring.AddressKey]*records.AddressDetails) []keyring.AddressKey {
	keys := make([]keyring.AddressKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func toEntry(key keyring.AddressKey, details *records.AddressDetails) (Entry, error) {
	ms, err := key.MultiSigner()
	if err != nil {
		return Entry{}, identcore.Wrap(identcore.KindDbInternal, key.Hex(), err)
	}
	return Entry{MultiSigner: ms, Details: details}, nil
}

// GetAll returns every address record, staged state overlaid on persisted
// state, sorted by AddressKey for deterministic output.
func GetAll(r kv.Reader, staging *Staging) ([]Entry, error) {
	all, err := collectAll(r, staging)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(all))
	for _, key := range sortedKeys(all) {
		entry, err := toEntry(key, all[key])
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// GetBySeed returns every record belonging to seedName, across all schemes
// and networks.
func GetBySeed(r kv.Reader, staging *Staging, seedName string) ([]Entry, error) {
	all, err := GetAll(r, staging)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, e := range all {
		if e.Details.SeedName == seedName {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetRelevant returns every record belonging to seedName that is a member of
// network.
func GetRelevant(r kv.Reader, staging *Staging, seedName string, network keyring.NetworkSpecsKey) ([]Entry, error) {
	bySeed, err := GetBySeed(r, staging, seedName)
	if err != nil {
		return nil, err
	}
	out := bySeed[:0:0]
	for _, e := range bySeed {
		if e.Details.ContainsNetwork(network) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetOne looks up a single record by its AddressKey.
func GetOne(r kv.Reader, staging *Staging, key keyring.AddressKey) (Entry, error) {
	details, found, err := lookup(r, staging, key)
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, identcore.New(identcore.KindNotFound, key.Hex())
	}
	return toEntry(key, details)
}

// CreateAddress derives path under seed and network, then merges the result
// into staging: if an AddressKey collision already exists for the same
// seed, network membership is added to the existing record (the record is
// left unchanged if that network is already present); otherwise a new record
// is staged. An identity_added event is staged on every call that gets past
// derivation, including a redundant one and one that then fails with
// key_collision. Every top-level create routes through here, which is why this is
// the one place a key_collision or encryption_mismatch error can surface.
func CreateAddress(r kv.Reader, staging *Staging, path string, network *records.NetworkSpecs, seed SeedObject) (keyring.AddressKey, error) {
	if seed.Scheme != network.Scheme {
		return "", identcore.New(identcore.KindEncryptionMismatch, fmt.Sprintf("seed scheme %s, network %s scheme %s", seed.Scheme, network.Name, network.Scheme))
	}
	parsed, err := derivation.Parse(path)
	if err != nil {
		return "", identcore.Wrap(identcore.KindInvalidDerivation, path, err)
	}

	public, addressKey, err := deriver.Derive(seed.SeedPhrase, path, seed.Scheme)
	if err != nil {
		return "", err
	}

	networkKey := network.SpecsKey()

	// The history event is recorded unconditionally, before merge
	// resolution, matching create_address in the original: even a
	// fully-redundant re-derivation (same key, network already present)
	// still produces an identity_added entry in the audit log.
	staging.Events = append(staging.Events, history.IdentityAdded(seed.SeedName, seed.Scheme, public, parsed.Path, networkKey.GenesisHash()))

	existing, found, err := lookup(r, staging, addressKey)
	if err != nil {
		return "", err
	}

	if found {
		if existing.SeedName != seed.SeedName {
			return "", identcore.New(identcore.KindKeyCollision, addressKey.Hex())
		}
		cp := *existing
		cp.NetworkID = append([]keyring.NetworkSpecsKey(nil), existing.NetworkID...)
		if cp.AddNetwork(networkKey) {
			staging.Put(addressKey, &cp)
		}
		return addressKey, nil
	}

	details := &records.AddressDetails{
		SeedName:  seed.SeedName,
		Path:      parsed.Path,
		HasPwd:    parsed.HasPassword,
		NetworkID: []keyring.NetworkSpecsKey{networkKey},
		Scheme:    seed.Scheme,
	}
	staging.Put(addressKey, details)
	return addressKey, nil
}

// Populate brings a freshly created seed up to the standard set of
// addresses: a root-path identity and a network-default-path identity for
// every network that shares the seed's scheme. The root call's error
// propagates, since a failure there means the seed itself cannot derive
// under this scheme at all; the default-path call's error is deliberately
// swallowed, mirroring the asymmetric error handling in the original
// populate_addresses (a network-specific default path failing to derive
// should not abort populating the rest of the networks).
func Populate(r kv.Reader, staging *Staging, seed SeedObject, networks []*records.NetworkSpecs) error {
	for _, network := range networks {
		if network.Scheme != seed.Scheme {
			continue
		}
		if _, err := CreateAddress(r, staging, "", network, seed); err != nil {
			return fmt.Errorf("store: populate root address for network %s: %w", network.Name, err)
		}
		_, _ = CreateAddress(r, staging, network.DefaultPath, network, seed)
	}
	return nil
}

// PrepareDelete removes a single network membership from the record at
// addressKey. If that was the record's last network membership, the whole
// record is staged for deletion.
func PrepareDelete(r kv.Reader, staging *Staging, addressKey keyring.AddressKey, networkKey keyring.NetworkSpecsKey) error {
	details, found, err := lookup(r, staging, addressKey)
	if err != nil {
		return err
	}
	if !found {
		return identcore.New(identcore.KindNotFound, addressKey.Hex())
	}

	cp := *details
	cp.NetworkID = append([]keyring.NetworkSpecsKey(nil), details.NetworkID...)
	if !cp.RemoveNetwork(networkKey) {
		return identcore.New(identcore.KindNotFound, networkKey.Hex())
	}

	staging.Events = append(staging.Events, history.IdentityRemoved(cp.SeedName, cp.Scheme, addressKey.PublicKey(), cp.Path, networkKey.GenesisHash()))
	if len(cp.NetworkID) == 0 {
		staging.Delete(addressKey)
	} else {
		staging.Put(addressKey, &cp)
	}
	return nil
}

// PrepareRemoveForSeed wipes every record belonging to seedName, regardless
// of scheme or network, emitting one identity_removed event per network
// membership the seed held.
func PrepareRemoveForSeed(r kv.Reader, staging *Staging, seedName string) error {
	all, err := collectAll(r, staging)
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(all) {
		details := all[key]
		if details.SeedName != seedName {
			continue
		}
		for _, netKey := range details.NetworkID {
			staging.Events = append(staging.Events, history.IdentityRemoved(details.SeedName, details.Scheme, key.PublicKey(), details.Path, netKey.GenesisHash()))
		}
		staging.Delete(key)
	}
	return nil
}
