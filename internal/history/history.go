// Package history implements the append-only audit log the committer
// persists alongside every identity batch. Event payload shape
// ({seed_name, encryption, public_key, path, network_genesis_hash}) must
// match exactly across signer and desktop builds, so it is JSON-encoded
// directly rather than run through the SCALE codec used for ADDRTREE.
package history

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/kv"
)

// EventKind names the kind of audit event.
type EventKind string

const (
	EventIdentityAdded   EventKind = "identity_added"
	EventIdentityRemoved EventKind = "identity_removed"
	EventIdentitiesWiped EventKind = "identities_wiped"
)

// IdentityPayload is the JSON payload of IdentityAdded/IdentityRemoved.
type IdentityPayload struct {
	SeedName           string `json:"seed_name"`
	Encryption         string `json:"encryption"`
	PublicKey          string `json:"public_key"`
	Path               string `json:"path"`
	NetworkGenesisHash string `json:"network_genesis_hash"`
}

// Event is one audit log entry.
type Event struct {
	Event   EventKind        `json:"event"`
	Payload *IdentityPayload `json:"payload,omitempty"`
}

func identityPayload(seedName string, scheme keyring.Scheme, publicKey []byte, path string, genesisHash [32]byte) *IdentityPayload {
	return &IdentityPayload{
		SeedName:           seedName,
		Encryption:         scheme.String(),
		PublicKey:          hex.EncodeToString(publicKey),
		Path:               path,
		NetworkGenesisHash: hex.EncodeToString(genesisHash[:]),
	}
}

// IdentityAdded builds the event emitted by the derive-and-merge algorithm
// for every (record, network) derivation it performs, including one whose
// network is already present on the record.
func IdentityAdded(seedName string, scheme keyring.Scheme, publicKey []byte, path string, genesisHash [32]byte) Event {
	return Event{Event: EventIdentityAdded, Payload: identityPayload(seedName, scheme, publicKey, path, genesisHash)}
}

// IdentityRemoved builds the event emitted by deletion for every
// (record, network) pair removed.
func IdentityRemoved(seedName string, scheme keyring.Scheme, publicKey []byte, path string, genesisHash [32]byte) Event {
	return Event{Event: EventIdentityRemoved, Payload: identityPayload(seedName, scheme, publicKey, path, genesisHash)}
}

// IdentitiesWiped builds the fixture-reset marker event used by
// SeedTestFixtures.
func IdentitiesWiped() Event {
	return Event{Event: EventIdentitiesWiped}
}

// Encode JSON-marshals the event for storage.
func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("history: encode event: %w", err)
	}
	return b, nil
}

// Tree is the name of the append-only history bucket.
const Tree = "historytree"

// ToBatch allocates a monotonic sequence id per event from seq and stages an
// insert for each into the history tree, preserving the order events were
// emitted in. It never reads or mutates ADDRTREE/SPECSTREE: the committer
// appends this batch to the identity batch before applying both atomically.
func ToBatch(seq kv.SequenceAllocator, events []Event) (*kv.Batch, error) {
	batch := kv.NewBatch()
	for i, ev := range events {
		id, err := seq.NextSequence(Tree)
		if err != nil {
			return nil, fmt.Errorf("history: allocate id for event %d: %w", i, err)
		}
		encoded, err := ev.Encode()
		if err != nil {
			return nil, err
		}
		batch.Put(Tree, sequenceKey(id), encoded)
	}
	return batch, nil
}

func sequenceKey(id uint64) []byte {
	// Big-endian so that bbolt's byte-lexicographic bucket order matches
	// numeric order, keeping history iteration chronological.
	key := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		key[i] = byte(id)
		id >>= 8
	}
	return key
}

// All reads and decodes every event in the history tree, in insertion order.
func All(r kv.Reader) ([]Event, error) {
	var out []Event
	err := r.Iterate(Tree, func(_, value []byte) error {
		var ev Event
		if err := json.Unmarshal(value, &ev); err != nil {
			return fmt.Errorf("history: decode event: %w", err)
		}
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
