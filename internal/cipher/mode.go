package cipher

import (
	"encoding/binary"

	stdcipher "crypto/cipher"

	"golang.org/x/crypto/xts"

	"Picocrypt-NG/internal/errors"
	"Picocrypt-NG/internal/securebuf"
)

// xtsMode is the tweakable mode: cipherKey and tweakKey are independent,
// equal-length keys, and the header (or any other single data unit) is
// transformed as unit number 0.
type xtsMode struct {
	tweakKey []byte
	newBlock blockConstructor
}

// NewXTS returns a fresh, unkeyed XTS mode instance.
func NewXTS() Mode {
	return &xtsMode{}
}

func (m *xtsMode) Kind() Kind   { return KindXTS }
func (m *xtsMode) KeySize() int { return LargestEAKeySize }
func (m *xtsMode) GetNew() Mode { return &xtsMode{newBlock: m.newBlock} }

func (m *xtsMode) SetKey(key []byte) error {
	if len(key) != LargestEAKeySize {
		return errors.NewParamError("XTS", "SetKey: wrong tweak key length")
	}
	m.tweakKey = append([]byte(nil), key...)
	return nil
}

func (m *xtsMode) bind(newBlock blockConstructor) error {
	m.newBlock = newBlock
	return nil
}

// transform builds an xts.Cipher from cipherKey||tweakKey — exactly the key
// layout the header codec's key-extraction step (SPEC_FULL.md §4.6 step 8)
// produces for XTS — and runs data unit 0 through it. The header blob is
// always treated as the first (and only) unit this core ever addresses.
func (m *xtsMode) transform(cipherKey, buf []byte, encrypt bool) error {
	if m.newBlock == nil {
		return errors.NewParamError("XTS", "transform: not bound to an algorithm")
	}
	if m.tweakKey == nil {
		return errors.NewParamError("XTS", "transform: tweak key not set")
	}
	combined := make([]byte, 0, len(cipherKey)+len(m.tweakKey))
	combined = append(combined, cipherKey...)
	combined = append(combined, m.tweakKey...)
	defer securebuf.Wipe(combined)

	xc, err := xts.NewCipher(m.newBlock, combined)
	if err != nil {
		return errors.NewCryptoError("xts", err)
	}
	if encrypt {
		xc.Encrypt(buf, buf, 0)
	} else {
		xc.Decrypt(buf, buf, 0)
	}
	return nil
}

// legacyCbcKeySize is the size, in bytes, of a legacy mode's own key. Real
// pre-XTS TrueCrypt cascades used a secondary key of the same width as the
// widest cascade member; this build fixes it at LargestEAKeySize since every
// wired algorithm shares that width.
const legacyCbcKeySize = LargestEAKeySize

// legacyCbcMode is the representative pre-XTS legacy mode this build wires:
// outer cipher-block-chaining with a per-data-unit IV derived by encrypting
// the data-unit number with a block cipher keyed by the mode's own key,
// distinct from the algorithm's cipher key (SPEC_FULL.md §4.4, §P6).
type legacyCbcMode struct {
	modeKey  []byte
	newBlock blockConstructor
	aux      stdcipher.Block
}

// NewLegacyCbc returns a fresh, unkeyed legacy-CBC mode instance.
func NewLegacyCbc() Mode {
	return &legacyCbcMode{}
}

func (m *legacyCbcMode) Kind() Kind   { return KindLegacyCbc }
func (m *legacyCbcMode) KeySize() int { return legacyCbcKeySize }
func (m *legacyCbcMode) GetNew() Mode { return &legacyCbcMode{} }

func (m *legacyCbcMode) SetKey(key []byte) error {
	if len(key) != legacyCbcKeySize {
		return errors.NewParamError("LegacyCbc", "SetKey: wrong mode key length")
	}
	m.modeKey = append([]byte(nil), key...)
	return m.buildAux()
}

func (m *legacyCbcMode) bind(newBlock blockConstructor) error {
	m.newBlock = newBlock
	return m.buildAux()
}

func (m *legacyCbcMode) buildAux() error {
	if m.newBlock == nil || m.modeKey == nil {
		return nil
	}
	aux, err := m.newBlock(m.modeKey)
	if err != nil {
		return errors.NewCryptoError("legacycbc-aux", err)
	}
	m.aux = aux
	return nil
}

func (m *legacyCbcMode) transform(cipherKey, buf []byte, encrypt bool) error {
	if m.aux == nil {
		return errors.NewParamError("LegacyCbc", "transform: mode key not bound")
	}
	block, err := m.newBlock(cipherKey)
	if err != nil {
		return errors.NewCryptoError("legacycbc", err)
	}
	blockSize := block.BlockSize()
	if len(buf)%blockSize != 0 {
		return errors.NewParamError("LegacyCbc", "transform: buffer not block-aligned")
	}

	unit := make([]byte, blockSize)
	binary.BigEndian.PutUint64(unit[blockSize-8:], 0)
	iv := make([]byte, blockSize)
	m.aux.Encrypt(iv, unit)

	if encrypt {
		stdcipher.NewCBCEncrypter(block, iv).CryptBlocks(buf, buf)
	} else {
		stdcipher.NewCBCDecrypter(block, iv).CryptBlocks(buf, buf)
	}
	return nil
}

// DefaultModes returns the mode catalog in the order the trial engine should
// try them.
func DefaultModes() []Mode {
	return []Mode{NewXTS(), NewLegacyCbc()}
}
