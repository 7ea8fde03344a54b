// Package kvstore implements the kv.Store contract on top of bbolt, the
// embedded sorted key/value engine lightninglabs-chantools uses for its own
// on-disk channel databases (cmd/chantools/compactdb.go opens and copies
// bbolt databases directly). bbolt buckets are this engine's "named trees",
// and a single *bbolt.Tx spanning several buckets gives exactly the atomic
// multi-tree batch semantics the identity core's committer (internal/txn)
// needs: every operation in a kv.Batch commits, or none of them do.
package kvstore

import (
	"fmt"

	bolt "github.com/coreos/bbolt"

	"github.com/skms-labs/identity-core/internal/kv"
)

// Store wraps an open bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureTrees creates any of the named buckets that do not already exist.
func (s *Store) EnsureTrees(trees ...string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, t := range trees {
			if _, err := tx.CreateBucketIfNotExists([]byte(t)); err != nil {
				return fmt.Errorf("kvstore: create tree %s: %w", t, err)
			}
		}
		return nil
	})
}

// Get implements kv.Reader.
func (s *Store) Get(tree string, key []byte) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tree))
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: get from %s: %w", tree, err)
	}
	return out, out != nil, nil
}

// Iterate implements kv.Reader, walking the tree in byte-lexicographic key
// order (bbolt buckets are always ordered this way).
func (s *Store) Iterate(tree string, fn func(key, value []byte) error) error {
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tree))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kvstore: iterate %s: %w", tree, err)
	}
	return nil
}

// Apply implements kv.Writer: a single bbolt write transaction spans every
// tree the batch touches, so either all operations land or the transaction
// rolls back and none do.
func (s *Store) Apply(batch *kv.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, op := range batch.Ops {
			b, err := tx.CreateBucketIfNotExists([]byte(op.Tree))
			if err != nil {
				return fmt.Errorf("create tree %s: %w", op.Tree, err)
			}
			if op.Value == nil {
				if err := b.Delete(op.Key); err != nil {
					return fmt.Errorf("delete from %s: %w", op.Tree, err)
				}
				continue
			}
			if err := b.Put(op.Key, op.Value); err != nil {
				return fmt.Errorf("put into %s: %w", op.Tree, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kvstore: apply batch: %w", err)
	}
	return nil
}

// NextSequence allocates a monotonically increasing identifier within tree,
// used by the history writer to key append-only audit events.
func (s *Store) NextSequence(tree string) (uint64, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(tree))
		if err != nil {
			return err
		}
		seq, err = b.NextSequence()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("kvstore: next sequence for %s: %w", tree, err)
	}
	return seq, nil
}
