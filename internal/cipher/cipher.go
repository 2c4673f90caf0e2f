// Package cipher implements the polymorphic encryption-algorithm and
// encryption-mode abstractions the trial-decryption engine searches over.
// The mode/algorithm split, and the XTS-vs-legacy key-layout dichotomy, are
// the two axes the rest of this codebase keys off (internal/header).
package cipher

import (
	stdaes "crypto/aes"
	stdcipher "crypto/cipher"

	"github.com/Picocrypt/serpent"
	"golang.org/x/crypto/twofish"

	"Picocrypt-NG/internal/errors"
)

// LargestEAKeySize is the key size, in bytes, of the largest encryption
// algorithm this build wires in (AES/Serpent/Twofish are all keyed at 256
// bits here).
const LargestEAKeySize = 32

// LegacyEncryptionModeKeyAreaSize is the size, in bytes, of the region at
// the front of the header key reserved for a legacy mode's own key; the
// algorithm's key begins immediately after it. This mirrors the fixed
// key-area layout of the pre-XTS TrueCrypt cipher cascade formats.
const LegacyEncryptionModeKeyAreaSize = 128

// GetLargestSerializedKeySize returns the largest header-key buffer size any
// wired (KDF, mode, algorithm) triple could need: either two full algorithm
// keys (XTS's cipherKey||tweakKey) or a legacy mode's key area plus one
// algorithm key, whichever is larger.
func GetLargestSerializedKeySize() int {
	xtsSize := 2 * LargestEAKeySize
	legacySize := LegacyEncryptionModeKeyAreaSize + LargestEAKeySize
	if xtsSize > legacySize {
		return xtsSize
	}
	return legacySize
}

// Kind discriminates XTS from legacy modes. The trial engine and the header
// codec switch on Kind, never on the mode's concrete Go type — see the
// redesign note in SPEC_FULL.md §9.
type Kind int

const (
	// KindXTS is the tweakable mode requiring two independent keys.
	KindXTS Kind = iota
	// KindLegacyCbc is the pre-XTS cipher-block-chaining family, with a
	// distinct mode-key region separate from the algorithm's own key.
	KindLegacyCbc
)

// IsXTS reports whether k is the XTS tag.
func (k Kind) IsXTS() bool { return k == KindXTS }

func (k Kind) String() string {
	switch k {
	case KindXTS:
		return "XTS"
	case KindLegacyCbc:
		return "LegacyCbc"
	default:
		return "unknown"
	}
}

// blockConstructor builds a cipher.Block from a raw key. Every concrete
// algorithm below exposes one.
type blockConstructor func(key []byte) (stdcipher.Block, error)

// Mode is the encryption-mode capability set (KeySize, SetKey, GetNew, plus
// the Kind discriminator). The two unexported methods (bind, transform) wire
// a mode to the algorithm it is bound to without leaking that plumbing into
// the public capability set external callers see.
type Mode interface {
	Kind() Kind
	KeySize() int
	SetKey(key []byte) error
	GetNew() Mode

	bind(newBlock blockConstructor) error
	transform(cipherKey, buf []byte, encrypt bool) error
}

// Algorithm is the encryption-algorithm capability set.
type Algorithm interface {
	Name() string
	KeySize() int
	BlockSize() int
	SetKey(key []byte) error
	SetMode(mode Mode) error
	IsModeSupported(mode Mode) bool
	Encrypt(buf []byte) error
	Decrypt(buf []byte) error
	GetNew() Algorithm
}

// blockAlgorithm is the shared implementation backing AES, Serpent, and
// Twofish: all three are plain 16-byte-block ciphers, differing only in name,
// key size, and their underlying cipher.Block constructor.
type blockAlgorithm struct {
	name      string
	keySize   int
	blockSize int
	newBlock  blockConstructor
	key       []byte
	mode      Mode
}

func newBlockAlgorithm(name string, keySize, blockSize int, newBlock blockConstructor) *blockAlgorithm {
	return &blockAlgorithm{name: name, keySize: keySize, blockSize: blockSize, newBlock: newBlock}
}

func (a *blockAlgorithm) Name() string   { return a.name }
func (a *blockAlgorithm) KeySize() int   { return a.keySize }
func (a *blockAlgorithm) BlockSize() int { return a.blockSize }

func (a *blockAlgorithm) SetKey(key []byte) error {
	if len(key) != a.keySize {
		return errors.NewParamError(a.name, "SetKey: wrong key length")
	}
	a.key = append([]byte(nil), key...)
	return nil
}

// IsModeSupported reports whether mode can be bound to this algorithm. Every
// algorithm wired in this build supports both concrete modes, so this is a
// nil check rather than a capability table; a future algorithm with a
// genuine restriction would narrow this.
func (a *blockAlgorithm) IsModeSupported(mode Mode) bool {
	return mode != nil
}

func (a *blockAlgorithm) SetMode(mode Mode) error {
	if !a.IsModeSupported(mode) {
		return errors.NewParamError(a.name, "SetMode: unsupported mode")
	}
	if err := mode.bind(a.newBlock); err != nil {
		return err
	}
	a.mode = mode
	return nil
}

func (a *blockAlgorithm) Encrypt(buf []byte) error { return a.transform(buf, true) }
func (a *blockAlgorithm) Decrypt(buf []byte) error { return a.transform(buf, false) }

func (a *blockAlgorithm) transform(buf []byte, encrypt bool) error {
	if a.mode == nil {
		return errors.NewParamError(a.name, "Encrypt/Decrypt: no mode bound")
	}
	if a.key == nil {
		return errors.NewParamError(a.name, "Encrypt/Decrypt: no key set")
	}
	return a.mode.transform(a.key, buf, encrypt)
}

func (a *blockAlgorithm) GetNew() Algorithm {
	return newBlockAlgorithm(a.name, a.keySize, a.blockSize, a.newBlock)
}

// NewAES returns a fresh, unkeyed AES-256 algorithm instance.
func NewAES() Algorithm {
	return newBlockAlgorithm("AES", LargestEAKeySize, stdaes.BlockSize, func(key []byte) (stdcipher.Block, error) {
		return stdaes.NewCipher(key)
	})
}

// NewSerpent returns a fresh, unkeyed Serpent-256 algorithm instance.
func NewSerpent() Algorithm {
	return newBlockAlgorithm("Serpent", LargestEAKeySize, 16, func(key []byte) (stdcipher.Block, error) {
		return serpent.NewCipher(key)
	})
}

// NewTwofish returns a fresh, unkeyed Twofish-256 algorithm instance.
func NewTwofish() Algorithm {
	return newBlockAlgorithm("Twofish", LargestEAKeySize, twofish.BlockSize, func(key []byte) (stdcipher.Block, error) {
		return twofish.NewCipher(key)
	})
}

// DefaultAlgorithms returns the algorithm catalog in the order the trial
// engine should try them. This is external-collaborator territory per
// SPEC_FULL.md §4.4 — the core only ever iterates whatever list it is given.
func DefaultAlgorithms() []Algorithm {
	return []Algorithm{NewAES(), NewSerpent(), NewTwofish()}
}
