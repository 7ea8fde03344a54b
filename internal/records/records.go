// Package records defines the persisted value types of the identity tree
// (AddressDetails) and the read-only network specs tree (NetworkSpecs),
// along with their SCALE encodings (see internal/scalecodec).
package records

import (
	"fmt"

	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/scalecodec"
)

// AddressDetails is the persisted value keyed by AddressKey in ADDRTREE.
type AddressDetails struct {
	SeedName  string
	Path      string
	HasPwd    bool
	NetworkID []keyring.NetworkSpecsKey
	Scheme    keyring.Scheme
}

// ContainsNetwork reports whether key is already a member of NetworkID.
func (a *AddressDetails) ContainsNetwork(key keyring.NetworkSpecsKey) bool {
	for _, k := range a.NetworkID {
		if k == key {
			return true
		}
	}
	return false
}

// AddNetwork appends key if absent, preserving the invariant that NetworkID
// never contains duplicates. Returns whether it was actually added.
func (a *AddressDetails) AddNetwork(key keyring.NetworkSpecsKey) bool {
	if a.ContainsNetwork(key) {
		return false
	}
	a.NetworkID = append(a.NetworkID, key)
	return true
}

// RemoveNetwork drops key from NetworkID if present. Returns whether it was
// actually removed.
func (a *AddressDetails) RemoveNetwork(key keyring.NetworkSpecsKey) bool {
	for i, k := range a.NetworkID {
		if k == key {
			a.NetworkID = append(a.NetworkID[:i], a.NetworkID[i+1:]...)
			return true
		}
	}
	return false
}

// Encode serializes the record per the wire layout in SPEC_FULL §6: compact
// length-prefixed seed_name, path, a single has_pwd byte, a compact-prefixed
// vector of 34-byte NetworkSpecsKey values, and a single scheme tag byte.
func (a *AddressDetails) Encode() []byte {
	w := scalecodec.NewWriter()
	w.PutString(a.SeedName)
	w.PutString(a.Path)
	w.PutBool(a.HasPwd)
	w.PutCompactUint(uint64(len(a.NetworkID)))
	for _, k := range a.NetworkID {
		w.PutFixed(k.Bytes())
	}
	w.PutByte(byte(a.Scheme))
	return w.Bytes()
}

// DecodeAddressDetails parses the Encode layout back into a record.
func DecodeAddressDetails(b []byte) (*AddressDetails, error) {
	r := scalecodec.NewReader(b)
	seedName, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("records: seed_name: %w", err)
	}
	path, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("records: path: %w", err)
	}
	hasPwd, err := r.Bool()
	if err != nil {
		return nil, fmt.Errorf("records: has_pwd: %w", err)
	}
	count, err := r.CompactUint()
	if err != nil {
		return nil, fmt.Errorf("records: network_id length: %w", err)
	}
	networkID := make([]keyring.NetworkSpecsKey, 0, count)
	for i := uint64(0); i < count; i++ {
		fixed, err := r.Fixed(2 + keyring.GenesisHashLen)
		if err != nil {
			return nil, fmt.Errorf("records: network_id[%d]: %w", i, err)
		}
		networkID = append(networkID, keyring.NetworkSpecsKey(fixed))
	}
	schemeByte, err := r.Byte()
	if err != nil {
		return nil, fmt.Errorf("records: scheme: %w", err)
	}
	return &AddressDetails{
		SeedName:  seedName,
		Path:      path,
		HasPwd:    hasPwd,
		NetworkID: networkID,
		Scheme:    keyring.Scheme(schemeByte),
	}, nil
}

// NetworkSpecs is the read-only value held in SPECSTREE.
type NetworkSpecs struct {
	GenesisHash   [keyring.GenesisHashLen]byte
	Scheme        keyring.Scheme
	Base58Prefix  uint16
	DefaultPath   string
	Name          string
}

// SpecsKey returns the NetworkSpecsKey this record is stored under.
func (n *NetworkSpecs) SpecsKey() keyring.NetworkSpecsKey {
	return keyring.NewNetworkSpecsKey(n.Scheme, n.GenesisHash)
}

// Encode serializes the record: fixed 32-byte genesis hash, scheme tag byte,
// compact-prefixed base58 prefix, compact length-prefixed default path and
// name.
func (n *NetworkSpecs) Encode() []byte {
	w := scalecodec.NewWriter()
	w.PutFixed(n.GenesisHash[:])
	w.PutByte(byte(n.Scheme))
	w.PutCompactUint(uint64(n.Base58Prefix))
	w.PutString(n.DefaultPath)
	w.PutString(n.Name)
	return w.Bytes()
}

// DecodeNetworkSpecs parses the Encode layout back into a record.
func DecodeNetworkSpecs(b []byte) (*NetworkSpecs, error) {
	r := scalecodec.NewReader(b)
	hash, err := r.Fixed(keyring.GenesisHashLen)
	if err != nil {
		return nil, fmt.Errorf("records: genesis_hash: %w", err)
	}
	schemeByte, err := r.Byte()
	if err != nil {
		return nil, fmt.Errorf("records: scheme: %w", err)
	}
	prefix, err := r.CompactUint()
	if err != nil {
		return nil, fmt.Errorf("records: base58_prefix: %w", err)
	}
	defaultPath, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("records: default_path: %w", err)
	}
	name, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("records: name: %w", err)
	}
	var genesisHash [keyring.GenesisHashLen]byte
	copy(genesisHash[:], hash)
	return &NetworkSpecs{
		GenesisHash:  genesisHash,
		Scheme:       keyring.Scheme(schemeByte),
		Base58Prefix: uint16(prefix),
		DefaultPath:  defaultPath,
		Name:         name,
	}, nil
}
