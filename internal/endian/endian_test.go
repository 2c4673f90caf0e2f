package endian

import "testing"

func TestReadWriteRoundTrip(t *testing.T) {
	buf := make([]byte, 14)
	w := NewCursor(buf)
	if err := w.WriteU16(0xABCD); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}
	if err := w.WriteU32(0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	if err := w.WriteU64(0x0102030405060708); err != nil {
		t.Fatalf("WriteU64: %v", err)
	}

	r := NewCursor(buf)
	u16, err := r.ReadU16()
	if err != nil || u16 != 0xABCD {
		t.Fatalf("ReadU16 = %x, %v; want ABCD, nil", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("ReadU32 = %x, %v; want DEADBEEF, nil", u32, err)
	}
	u64, err := r.ReadU64()
	if err != nil || u64 != 0x0102030405060708 {
		t.Fatalf("ReadU64 = %x, %v; want 0102030405060708, nil", u64, err)
	}
	if r.Offset() != 14 {
		t.Errorf("Offset() = %d; want 14", r.Offset())
	}
}

func TestReadPastBufferEndErrors(t *testing.T) {
	buf := make([]byte, 2)
	c := NewCursor(buf)
	if _, err := c.ReadU32(); err == nil {
		t.Fatal("ReadU32: want error reading past buffer end")
	}
}

func TestSeekAndSkip(t *testing.T) {
	buf := make([]byte, 8)
	c := NewCursor(buf)
	c.Seek(4)
	if err := c.Skip(4); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if err := c.Skip(1); err == nil {
		t.Fatal("Skip: want error advancing past buffer end")
	}
}

func TestU32AtAndPutU32At(t *testing.T) {
	buf := make([]byte, 8)
	if err := PutU32At(buf, 4, 0x11223344); err != nil {
		t.Fatalf("PutU32At: %v", err)
	}
	got, err := U32At(buf, 4)
	if err != nil || got != 0x11223344 {
		t.Fatalf("U32At = %x, %v; want 11223344, nil", got, err)
	}
	if _, err := U32At(buf, 6); err == nil {
		t.Fatal("U32At: want error reading past buffer end")
	}
}
