package kdf

import (
	"bytes"
	"testing"

	"Picocrypt-NG/internal/errors"
)

func TestDefaultKDFsDeriveDeterministically(t *testing.T) {
	salt := bytes.Repeat([]byte{0x42}, 64)
	password := []byte("correct horse battery staple")

	for _, k := range DefaultKDFs() {
		t.Run(k.Name(), func(t *testing.T) {
			out1 := make([]byte, 64)
			out2 := make([]byte, 64)
			if err := k.DeriveKey(out1, password, 0, salt); err != nil {
				t.Fatalf("DeriveKey: %v", err)
			}
			if err := k.DeriveKey(out2, password, 0, salt); err != nil {
				t.Fatalf("DeriveKey: %v", err)
			}
			if !bytes.Equal(out1, out2) {
				t.Fatal("DeriveKey is not deterministic for the same inputs")
			}
		})
	}
}

func TestDeriveKeyEmptyPassword(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, 64)
	k := NewSHA512()
	out := make([]byte, 32)
	if err := k.DeriveKey(out, nil, 0, salt); !errors.Is(err, errors.ErrPasswordEmpty) {
		t.Fatalf("DeriveKey error = %v; want ErrPasswordEmpty", err)
	}
}

func TestDifferentSaltsDeriveDifferentKeys(t *testing.T) {
	k := NewSHA512()
	password := []byte("same password")
	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	if err := k.DeriveKey(out1, password, 0, bytes.Repeat([]byte{0x01}, 64)); err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if err := k.DeriveKey(out2, password, 0, bytes.Repeat([]byte{0x02}, 64)); err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if bytes.Equal(out1, out2) {
		t.Fatal("different salts produced the same derived key")
	}
}

func TestPimIterationsFormula(t *testing.T) {
	k := NewSHA512().(*pbkdf2Kdf)
	if got := k.IterationCount(0); got != 500000 {
		t.Errorf("IterationCount(0) = %d; want 500000 (the default)", got)
	}
	if got := k.IterationCount(10); got != 25000 {
		t.Errorf("IterationCount(10) = %d; want 25000 (15000 + 10*1000)", got)
	}
}

func TestNamesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range DefaultKDFs() {
		if seen[k.Name()] {
			t.Errorf("duplicate KDF name %q", k.Name())
		}
		seen[k.Name()] = true
	}
}
