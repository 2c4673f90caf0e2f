package header

import (
	"crypto/sha512"
	"testing"

	"golang.org/x/crypto/pbkdf2"

	stdcipher "Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/errors"
	stdkdf "Picocrypt-NG/internal/kdf"
)

// testKdf is a PBKDF2-SHA512 variant with a tiny fixed iteration count, used
// throughout this file in place of the real catalog's 500000+-iteration
// defaults so the trial-decryption tests stay fast.
type testKdf struct {
	name       string
	iterations uint32
	calls      int
}

func (k *testKdf) Name() string               { return k.name }
func (k *testKdf) IterationCount(int) uint32  { return k.iterations }
func (k *testKdf) DeriveKey(outKey, password []byte, pim int, salt []byte) error {
	k.calls++
	if len(password) == 0 {
		return errors.ErrPasswordEmpty
	}
	derived := pbkdf2.Key(password, salt, int(k.iterations), len(outKey), sha512.New)
	copy(outKey, derived)
	return nil
}

func newTestKdf(name string) *testKdf { return &testKdf{name: name, iterations: 100} }

func testCatalogs() ([]stdkdf.Pkcs5Kdf, []stdcipher.Mode, []stdcipher.Algorithm) {
	kdfs := []stdkdf.Pkcs5Kdf{newTestKdf("test-sha512")}
	modes := []stdcipher.Mode{stdcipher.NewXTS(), stdcipher.NewLegacyCbc()}
	algorithms := []stdcipher.Algorithm{stdcipher.NewAES(), stdcipher.NewSerpent(), stdcipher.NewTwofish()}
	return kdfs, modes, algorithms
}

func createTestHeader(t *testing.T, pkcs5 stdkdf.Pkcs5Kdf, ea stdcipher.Algorithm, hiddenSize uint64) *VolumeHeader {
	t.Helper()
	h, err := Create(512, pkcs5, ea, 1<<30, hiddenSize, EncryptedHeaderDataOffset*2, 1<<30, 512, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return h
}

// createLegacyTestHeader builds a header bound to mode instead of the XTS
// Create always produces, standing in for a pre-existing old-format volume
// that Decrypt must still be able to authenticate.
func createLegacyTestHeader(t *testing.T, pkcs5 stdkdf.Pkcs5Kdf, mode stdcipher.Mode, ea stdcipher.Algorithm, hiddenSize uint64) *VolumeHeader {
	t.Helper()
	h := createTestHeader(t, pkcs5, ea, hiddenSize)
	dataAreaKey, err := h.DataAreaKey.GetRange(0, DataKeyAreaMaxSize)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if err := bindKeys(ea, mode, dataAreaKey); err != nil {
		t.Fatalf("bindKeys: %v", err)
	}
	h.Mode = mode
	return h
}

func TestCreateEncryptNewDecryptRoundTrip(t *testing.T) {
	kdfs, modes, algorithms := testCatalogs()
	pkcs5 := kdfs[0]
	ea := stdcipher.NewAES()

	h := createTestHeader(t, pkcs5, ea, 0)
	password := []byte("correct horse battery staple")

	blob, err := h.EncryptNew(password, 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}
	if len(blob) != 512 {
		t.Fatalf("blob length = %d; want 512", len(blob))
	}

	got := New(512)
	ok, err := got.Decrypt(blob, password, 0, false, kdfs, modes, algorithms)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !ok {
		t.Fatal("Decrypt did not find the correct (KDF, mode, algorithm) combination")
	}
	if got.VolumeType != VolumeTypeNormal {
		t.Errorf("VolumeType = %v; want Normal", got.VolumeType)
	}
	if got.VolumeDataSize != h.VolumeDataSize {
		t.Errorf("VolumeDataSize = %d; want %d", got.VolumeDataSize, h.VolumeDataSize)
	}
}

func TestHiddenVolumeDetection(t *testing.T) {
	kdfs, modes, algorithms := testCatalogs()
	pkcs5 := kdfs[0]
	ea := stdcipher.NewSerpent()
	mode := stdcipher.NewLegacyCbc()

	h := createLegacyTestHeader(t, pkcs5, mode, ea, 1<<20)
	password := []byte("hidden volume passphrase")

	blob, err := h.EncryptNew(password, 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}

	got := New(512)
	ok, err := got.Decrypt(blob, password, 0, false, kdfs, modes, algorithms)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !ok {
		t.Fatal("Decrypt failed to authenticate the correct password")
	}
	if got.VolumeType != VolumeTypeHidden {
		t.Errorf("VolumeType = %v; want Hidden", got.VolumeType)
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	kdfs, modes, algorithms := testCatalogs()
	pkcs5 := kdfs[0]
	h := createTestHeader(t, pkcs5, stdcipher.NewTwofish(), 0)

	blob, err := h.EncryptNew([]byte("the real password"), 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}

	got := New(512)
	ok, err := got.Decrypt(blob, []byte("a guess"), 0, false, kdfs, modes, algorithms)
	if err != nil {
		t.Fatalf("Decrypt returned an error for a wrong password, want (false, nil): %v", err)
	}
	if ok {
		t.Fatal("Decrypt authenticated a wrong password")
	}
}

func TestDecryptBitFlipInEncryptedRegion(t *testing.T) {
	kdfs, modes, algorithms := testCatalogs()
	pkcs5 := kdfs[0]
	h := createTestHeader(t, pkcs5, stdcipher.NewAES(), 0)

	password := []byte("flip me not")
	blob, err := h.EncryptNew(password, 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}
	blob[EncryptedHeaderDataOffset+10] ^= 0xFF

	got := New(512)
	ok, err := got.Decrypt(blob, password, 0, false, kdfs, modes, algorithms)
	if err != nil {
		t.Fatalf("Decrypt returned an error for corrupted ciphertext, want (false, nil): %v", err)
	}
	if ok {
		t.Fatal("Decrypt authenticated a header with a flipped ciphertext bit")
	}
}

func TestDecryptVersionTooHigh(t *testing.T) {
	kdfs, modes, algorithms := testCatalogs()
	pkcs5 := kdfs[0]
	h := createTestHeader(t, pkcs5, stdcipher.NewAES(), 0)
	h.HeaderVersion = CurrentHeaderVersion + 1

	password := []byte("future format")
	blob, err := h.EncryptNew(password, 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}

	got := New(512)
	_, err = got.Decrypt(blob, password, 0, false, kdfs, modes, algorithms)
	if !errors.Is(err, errors.ErrHigherVersionRequired) {
		t.Fatalf("Decrypt error = %v; want ErrHigherVersionRequired", err)
	}
}

func TestDecryptSearchOrdering(t *testing.T) {
	pkcs5A := newTestKdf("A")
	pkcs5A.iterations = 50 // derives a different key from B, so A never matches
	pkcs5B := newTestKdf("B")
	kdfs := []stdkdf.Pkcs5Kdf{pkcs5A, pkcs5B}
	modes := []stdcipher.Mode{stdcipher.NewXTS(), stdcipher.NewLegacyCbc()}
	algorithms := []stdcipher.Algorithm{stdcipher.NewAES(), stdcipher.NewSerpent()}

	h := createLegacyTestHeader(t, pkcs5B, stdcipher.NewLegacyCbc(), stdcipher.NewSerpent(), 0)
	password := []byte("ordering matters")
	blob, err := h.EncryptNew(password, 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}

	got := New(512)
	ok, err := got.Decrypt(blob, password, 0, false, kdfs, modes, algorithms)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !ok {
		t.Fatal("Decrypt did not find the correct combination")
	}
	// pkcs5A is tried first and exhausted (both modes, both algorithms)
	// before pkcs5B — the correct KDF — is ever reached.
	if pkcs5A.calls != 1 {
		t.Errorf("pkcs5A.calls = %d; want 1 (derived once, then abandoned)", pkcs5A.calls)
	}
	if pkcs5B.calls != 1 {
		t.Errorf("pkcs5B.calls = %d; want 1 (derived once, then matched)", pkcs5B.calls)
	}
}

func TestCloseZeroesKeyMaterial(t *testing.T) {
	kdfs, modes, algorithms := testCatalogs()
	h := createTestHeader(t, kdfs[0], stdcipher.NewAES(), 0)
	blob, err := h.EncryptNew([]byte("zero me"), 0, false)
	if err != nil {
		t.Fatalf("EncryptNew: %v", err)
	}

	got := New(512)
	if ok, err := got.Decrypt(blob, []byte("zero me"), 0, false, kdfs, modes, algorithms); err != nil || !ok {
		t.Fatalf("Decrypt: ok=%v err=%v", ok, err)
	}

	dataAreaKey, err := got.DataAreaKey.GetRange(0, DataKeyAreaMaxSize)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	nonZero := false
	for _, b := range dataAreaKey {
		if b != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("DataAreaKey was all-zero before Close")
	}

	got.Close()
	for _, b := range dataAreaKey {
		if b != 0 {
			t.Fatal("DataAreaKey bytes were not zeroed after Close")
		}
	}
}
