package securebuf

import "testing"

func TestNewFromAndGetRange(t *testing.T) {
	b := NewFrom([]byte("0123456789"))
	if b.Size() != 10 {
		t.Fatalf("Size() = %d; want 10", b.Size())
	}
	got, err := b.GetRange(2, 3)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if string(got) != "234" {
		t.Fatalf("GetRange(2,3) = %q; want %q", got, "234")
	}
}

func TestGetRangeOutOfBounds(t *testing.T) {
	b := New(8)
	if _, err := b.GetRange(4, 8); err == nil {
		t.Fatal("GetRange: want error when offset+length exceeds buffer size")
	}
	if _, err := b.GetRange(-1, 2); err == nil {
		t.Fatal("GetRange: want error for negative offset")
	}
}

func TestCopyFromLengthMismatch(t *testing.T) {
	b := New(4)
	if err := b.CopyFrom([]byte{1, 2, 3}); err == nil {
		t.Fatal("CopyFrom: want error for length mismatch")
	}
	if err := b.CopyFrom([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	got, _ := b.GetRange(0, 4)
	if got[0] != 1 || got[3] != 4 {
		t.Fatalf("CopyFrom did not copy correctly: %v", got)
	}
}

func TestCloseZeroesAndDisables(t *testing.T) {
	b := NewFrom([]byte{1, 2, 3, 4})
	view, err := b.GetRange(0, 4)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	b.Close()

	for i, v := range view {
		if v != 0 {
			t.Fatalf("byte %d = %d after Close; want 0", i, v)
		}
	}

	if _, err := b.GetRange(0, 4); err == nil {
		t.Fatal("GetRange on a closed buffer: want error")
	}
	if err := b.CopyFrom([]byte{5, 6, 7, 8}); err == nil {
		t.Fatal("CopyFrom on a closed buffer: want error")
	}

	// Close is idempotent.
	b.Close()
}

func TestWipe(t *testing.T) {
	s := []byte{1, 2, 3, 4}
	Wipe(s)
	for i, b := range s {
		if b != 0 {
			t.Fatalf("s[%d] = %d; want 0 after Wipe", i, b)
		}
	}
}

func TestNilBufferMethodsDoNotPanic(t *testing.T) {
	var b *Buffer
	if b.Size() != 0 {
		t.Fatal("nil Buffer.Size() != 0")
	}
	b.Zero()
	b.Close()
}
