package store

import (
	"github.com/skms-labs/identity-core/internal/constants"
	"github.com/skms-labs/identity-core/internal/history"
	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/kv"
	"github.com/skms-labs/identity-core/internal/records"
)

// Staging is the in-memory staging map (AddressKey -> AddressDetails) plus
// event log that SPEC_FULL §9 recommends in place of threading a growing
// Vec<(AddressKey, AddressDetails)> through every call: staged state shadows
// persisted state for the whole top-level operation, consulted before the
// KV store and flushed as one batch at the end. order tracks insertion
// order, with an entry moved to the back whenever it is re-touched, so the
// final batch reflects the same "as if applied left-to-right" ordering the
// original Vec-based algorithm produced.
type Staging struct {
	order   []keyring.AddressKey
	byKey   map[keyring.AddressKey]*records.AddressDetails
	deleted map[keyring.AddressKey]bool
	Events  []history.Event
}

// NewStaging returns an empty staging area.
func NewStaging() *Staging {
	return &Staging{
		byKey:   make(map[keyring.AddressKey]*records.AddressDetails),
		deleted: make(map[keyring.AddressKey]bool),
	}
}

// Get returns the staged record for key, if any. A key staged for deletion
// reports not-found, regardless of what it was staged as before.
func (s *Staging) Get(key keyring.AddressKey) (*records.AddressDetails, bool) {
	if s.deleted[key] {
		return nil, false
	}
	d, ok := s.byKey[key]
	return d, ok
}

// IsDeleted reports whether key is staged for deletion.
func (s *Staging) IsDeleted(key keyring.AddressKey) bool {
	return s.deleted[key]
}

// Put stages (or re-stages) a record under key, moving it to the end of the
// insertion order if it was already staged.
func (s *Staging) Put(key keyring.AddressKey, details *records.AddressDetails) {
	s.touch(key)
	delete(s.deleted, key)
	s.byKey[key] = details
}

// Delete stages a removal of key, moving it to the end of the insertion
// order so the final batch reflects the last touch.
func (s *Staging) Delete(key keyring.AddressKey) {
	s.touch(key)
	delete(s.byKey, key)
	s.deleted[key] = true
}

// touch records key's first appearance in order, or moves it to the back if
// it was already present, mirroring the original Vec::remove+push semantics
// for "the most recently touched entry settles at the end".
func (s *Staging) touch(key keyring.AddressKey) {
	_, inByKey := s.byKey[key]
	_, inDeleted := s.deleted[key]
	if inByKey || inDeleted {
		for i, k := range s.order {
			if k == key {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.order = append(s.order, key)
}

// Batch renders the current staged state as an ordered kv.Batch of ADDRTREE
// puts and deletes.
func (s *Staging) Batch() *kv.Batch {
	batch := kv.NewBatch()
	for _, key := range s.order {
		if s.deleted[key] {
			batch.Delete(constants.ADDRTREE, key.Bytes())
			continue
		}
		batch.Put(constants.ADDRTREE, key.Bytes(), s.byKey[key].Encode())
	}
	return batch
}
