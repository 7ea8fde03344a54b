package scalecodec

import "testing"

func TestCompactUintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 63, 64, 16383, 16384, 1 << 29, 1<<30 - 1, 1 << 30, 1 << 40}
	for _, v := range values {
		enc := EncodeCompactUint(v)
		got, n, err := DecodeCompactUint(enc)
		if err != nil {
			t.Fatalf("DecodeCompactUint(%v) error: %v", enc, err)
		}
		if n != len(enc) {
			t.Errorf("value %d: consumed %d bytes, want %d", v, n, len(enc))
		}
		if got != v {
			t.Errorf("value %d round-tripped as %d", v, got)
		}
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutString("Alice")
	w.PutString("//Alice//0")
	w.PutBool(true)
	w.PutCompactUint(2)
	w.PutFixed([]byte{0xde, 0xad, 0xbe, 0xef})
	w.PutByte(1)

	r := NewReader(w.Bytes())
	seedName, err := r.String()
	if err != nil || seedName != "Alice" {
		t.Fatalf("seedName = %q, err=%v", seedName, err)
	}
	path, err := r.String()
	if err != nil || path != "//Alice//0" {
		t.Fatalf("path = %q, err=%v", path, err)
	}
	hasPwd, err := r.Bool()
	if err != nil || !hasPwd {
		t.Fatalf("hasPwd = %v, err=%v", hasPwd, err)
	}
	count, err := r.CompactUint()
	if err != nil || count != 2 {
		t.Fatalf("count = %d, err=%v", count, err)
	}
	fixed, err := r.Fixed(4)
	if err != nil || string(fixed) != "\xde\xad\xbe\xef" {
		t.Fatalf("fixed = %x, err=%v", fixed, err)
	}
	tag, err := r.Byte()
	if err != nil || tag != 1 {
		t.Fatalf("tag = %d, err=%v", tag, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected no remaining bytes, got %d", r.Remaining())
	}
}

func TestReaderShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x05}) // mode=1 (two-byte) needs a second byte
	if _, err := r.CompactUint(); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}
