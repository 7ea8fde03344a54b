// Package kv defines the contract the identity core needs from its
// underlying key/value engine: a sorted byte-keyed store with named trees
// and atomic multi-tree batches. Per SPEC_FULL §2/§4.F this is the one
// external collaborator the core depends on through an interface only; the
// concrete engine lives in internal/kvstore.
package kv

// Op is one write against a named tree. A nil Value means delete.
type Op struct {
	Tree  string
	Key   []byte
	Value []byte
}

// Batch is an ordered list of writes meant to be applied as a single atomic
// transaction, regardless of how many distinct trees it touches.
type Batch struct {
	Ops []Op
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Put stages an insert/update of key in tree.
func (b *Batch) Put(tree string, key, value []byte) {
	b.Ops = append(b.Ops, Op{Tree: tree, Key: cloneBytes(key), Value: cloneBytes(value)})
}

// Delete stages a removal of key from tree.
func (b *Batch) Delete(tree string, key []byte) {
	b.Ops = append(b.Ops, Op{Tree: tree, Key: cloneBytes(key), Value: nil})
}

// Append merges other's operations onto the end of b, preserving order.
func (b *Batch) Append(other *Batch) {
	b.Ops = append(b.Ops, other.Ops...)
}

// Len reports the number of staged operations.
func (b *Batch) Len() int {
	return len(b.Ops)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Reader is the read-only contract the identity store needs.
type Reader interface {
	// Get looks up key in tree. found is false if the tree or key is absent.
	Get(tree string, key []byte) (value []byte, found bool, err error)
	// Iterate walks tree in byte-lexicographic key order, calling fn for
	// every entry. Iteration stops at the first error fn returns.
	Iterate(tree string, fn func(key, value []byte) error) error
}

// Writer applies a batch atomically: either every operation in it takes
// effect, or none do.
type Writer interface {
	Apply(b *Batch) error
}

// Store is the full contract: read access plus atomic batch application.
type Store interface {
	Reader
	Writer
}

// SequenceAllocator hands out monotonically increasing identifiers scoped to
// a tree, used by the history writer to key append-only audit events.
type SequenceAllocator interface {
	NextSequence(tree string) (uint64, error)
}
