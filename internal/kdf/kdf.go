// Package kdf implements the password-based key-derivation-function
// abstraction the trial-decryption engine searches over. Every concrete
// variant is a PBKDF2 instantiation differing only in the underlying hash
// and its PIM-to-iteration-count mapping.
package kdf

import (
	"crypto/sha512"
	"hash"

	"github.com/jzelinskie/whirlpool"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/ripemd160"

	"Picocrypt-NG/internal/errors"
)

// Pkcs5Kdf is the KDF capability set (SPEC_FULL.md §4.5).
type Pkcs5Kdf interface {
	Name() string
	IterationCount(pim int) uint32
	DeriveKey(outKey, password []byte, pim int, salt []byte) error
}

// pimIterations implements VeraCrypt's documented PIM formula for
// non-system volumes: at PIM=0, use the hash's own default iteration count;
// for PIM>0, scale linearly as 15000 + pim*1000.
func pimIterations(pim int, defaultIterations uint32) uint32 {
	if pim <= 0 {
		return defaultIterations
	}
	return uint32(15000 + pim*1000)
}

// pbkdf2Kdf is the shared implementation backing every concrete variant
// below: all three differ only in name, default iteration count, and
// underlying hash constructor.
type pbkdf2Kdf struct {
	name              string
	defaultIterations uint32
	newHash           func() hash.Hash
}

func (k *pbkdf2Kdf) Name() string { return k.name }

func (k *pbkdf2Kdf) IterationCount(pim int) uint32 {
	return pimIterations(pim, k.defaultIterations)
}

// DeriveKey writes exactly len(outKey) bytes into outKey, the same
// all-zero-output sanity check idiom the reference implementation of this
// cascade uses for its own key derivation (a zero-filled derived key is
// always a sign something upstream — a nil hash, a stub RNG — went wrong,
// never a legitimate output).
func (k *pbkdf2Kdf) DeriveKey(outKey, password []byte, pim int, salt []byte) error {
	if len(password) == 0 {
		return errors.ErrPasswordEmpty
	}
	iterations := k.IterationCount(pim)
	derived := pbkdf2.Key(password, salt, int(iterations), len(outKey), k.newHash)
	if allZero(derived) {
		return errors.NewCryptoError(k.name, errors.ErrParameterIncorrect)
	}
	copy(outKey, derived)
	return nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// NewSHA512 returns the SHA-512 PBKDF2 variant, VeraCrypt's default.
func NewSHA512() Pkcs5Kdf {
	return &pbkdf2Kdf{name: "SHA-512", defaultIterations: 500000, newHash: sha512.New}
}

// NewWhirlpool returns the Whirlpool PBKDF2 variant.
func NewWhirlpool() Pkcs5Kdf {
	return &pbkdf2Kdf{name: "Whirlpool", defaultIterations: 500000, newHash: whirlpool.New}
}

// NewRIPEMD160 returns the RIPEMD-160 PBKDF2 variant. RIPEMD-160 is the
// legacy TrueCrypt-compat hash; it keeps its own default iteration count,
// lower than SHA-512/Whirlpool's.
func NewRIPEMD160() Pkcs5Kdf {
	return &pbkdf2Kdf{name: "RIPEMD-160", defaultIterations: 327661, newHash: ripemd160.New}
}

// DefaultKDFs returns the KDF catalog in the order the trial engine should
// try them. External-collaborator territory per SPEC_FULL.md §4.5 — the
// core only ever iterates whatever list it is given. Streebog is named in
// the abstract KDF enumeration but intentionally absent here; see
// DESIGN.md.
func DefaultKDFs() []Pkcs5Kdf {
	return []Pkcs5Kdf{NewSHA512(), NewWhirlpool(), NewRIPEMD160()}
}
