// Package txn implements component D (SPEC_FULL §4.D): the transactional
// committer that applies an identity batch and its history batch as one
// atomic unit, so a crash or error partway through never leaves ADDRTREE
// and the history tree disagreeing about what happened.
//
// Grounded on bbolt's single-writer transaction model exposed through
// internal/kvstore.Store.Apply: one kv.Batch spanning ADDRTREE puts and
// deletes and historytree inserts is committed inside one bolt.Tx, the same
// way lightninglabs-chantools drives multi-bucket bbolt writes through a
// single db.Update callback.
package txn

import (
	"github.com/skms-labs/identity-core/internal/history"
	"github.com/skms-labs/identity-core/internal/kv"
	"github.com/skms-labs/identity-core/internal/store"
)

// Store is what the committer needs from the database handle: atomic batch
// application plus read access (for staging lookups performed before
// Commit is called) and sequence allocation (for history event ids).
type Store interface {
	kv.Store
	kv.SequenceAllocator
}

// Commit renders staging's identity batch and history events into a single
// kv.Batch and applies it through db in one call, so the identity tree and
// the audit log move together or not at all.
func Commit(db Store, staging *store.Staging) error {
	batch := staging.Batch()

	historyBatch, err := history.ToBatch(db, staging.Events)
	if err != nil {
		return err
	}
	batch.Append(historyBatch)

	if batch.Len() == 0 {
		return nil
	}
	return db.Apply(batch)
}
