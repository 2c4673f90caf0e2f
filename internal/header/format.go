// Package header implements the volume header binary codec and the
// trial-decryption search that authenticates a password against an
// encrypted container and recovers its data-area encryption keys.
package header

import (
	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/kdf"
	"Picocrypt-NG/internal/securebuf"
)

// On-disk layout. Salt occupies [SaltOffset, SaltOffset+SaltSize) in the
// clear; everything from EncryptedHeaderDataOffset onward is the encrypted
// region. The offsets below that name a field are relative to
// EncryptedHeaderDataOffset, matching the decrypted scratch buffer the codec
// works against.
const (
	SaltOffset = 0
	SaltSize   = 64

	EncryptedHeaderDataOffset = SaltOffset + SaltSize

	magicOffset                     = 0
	magicSize                       = 4
	headerVersionOffset             = 4
	requiredMinProgramVersionOffset = 6
	volumeKeyAreaCrc32Offset        = 8
	reservedTimestampsOffset        = 12
	hiddenVolumeDataSizeOffset      = 28
	volumeDataSizeOffset            = 36
	encryptedAreaStartOffset        = 44
	encryptedAreaLengthOffset       = 52
	flagsOffset                     = 60
	sectorSizeOffset                = 64
	headerCrcOffset                 = 188
	dataAreaKeyOffset               = 192

	// DataKeyAreaMaxSize is the size, in bytes, of the DataAreaKey region.
	DataKeyAreaMaxSize = 256

	magicVeraCrypt = "VERA"
	magicTrueCrypt = "TRUE"

	// MinAllowedHeaderVersion is the lowest HeaderVersion this build accepts
	// for a VeraCrypt-magic header; below it, Deserialize returns false.
	MinAllowedHeaderVersion = 5

	// MinAllowedHeaderVersionTrueCrypt is the equivalent floor for
	// TrueCrypt-magic headers, which predate HeaderVersion 5.
	MinAllowedHeaderVersionTrueCrypt = 1

	// CurrentHeaderVersion is the newest HeaderVersion this build
	// understands; above it, Deserialize fails with ErrHigherVersionRequired.
	CurrentHeaderVersion = 5

	// CurrentRequiredMinProgramVersion is this build's program version,
	// written by Serialize and used as the RequiredMinProgramVersion a
	// TrueCrypt-magic header is coerced to once it clears the TrueCrypt
	// program-version range check.
	CurrentRequiredMinProgramVersion = 0x010c

	trueCryptMinRequiredProgramVersion = 0x0600
	trueCryptMaxRequiredProgramVersion = 0x071a

	// MinSectorSize and MaxSectorSize bound SectorSize; SectorSize must also
	// be a multiple of MinSectorSize.
	MinSectorSize = 512
	MaxSectorSize = 4096

	// LegacySectorSize is the value SectorSize is coerced to for
	// HeaderVersion < 5, regardless of what is on disk.
	LegacySectorSize = 512
)

// VolumeType classifies a successfully decrypted header as hosting a normal
// or hidden volume, derived from whether HiddenVolumeDataSize is nonzero.
type VolumeType int

const (
	VolumeTypeUnknown VolumeType = iota
	VolumeTypeNormal
	VolumeTypeHidden
)

func (t VolumeType) String() string {
	switch t {
	case VolumeTypeNormal:
		return "Normal"
	case VolumeTypeHidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// VolumeHeader is a parsed, authenticated volume header together with the
// key material and primitives that authenticated it. It exclusively owns
// Salt, HeaderKey, and DataAreaKey storage (zeroed on Close). Pkcs5 refers to
// the KDF the caller supplied; EA and Mode are the algorithm and mode
// instances bound to DataAreaKey (the caller's algorithm after Create, fresh
// GetNew clones after Decrypt).
type VolumeHeader struct {
	HeaderSize              int
	EncryptedHeaderDataSize int

	HeaderVersion             uint16
	RequiredMinProgramVersion uint16
	VolumeKeyAreaCrc32        uint32
	VolumeCreationTime        uint64
	HeaderCreationTime        uint64
	HiddenVolumeDataSize      uint64
	VolumeDataSize            uint64
	EncryptedAreaStart        uint64
	EncryptedAreaLength       uint64
	Flags                     uint32
	SectorSize                uint32
	VolumeType                VolumeType
	TrueCryptMode             bool

	Salt        *securebuf.Buffer
	DataAreaKey *securebuf.Buffer
	HeaderKey   *securebuf.Buffer

	EA    cipher.Algorithm
	Mode  cipher.Mode
	Pkcs5 kdf.Pkcs5Kdf
}

// New constructs a VolumeHeader sized for a size-byte on-disk blob.
func New(size int) *VolumeHeader {
	h := &VolumeHeader{}
	h.SetSize(size)
	return h
}

// SetSize updates HeaderSize and the derived EncryptedHeaderDataSize.
func (h *VolumeHeader) SetSize(size int) {
	h.HeaderSize = size
	h.EncryptedHeaderDataSize = size - EncryptedHeaderDataOffset
}

// GetSize returns HeaderSize.
func (h *VolumeHeader) GetSize() int { return h.HeaderSize }

// Close zeros Salt, HeaderKey, and DataAreaKey and releases the EA/Mode/
// Pkcs5 references. Safe to call repeatedly, including on a header that was
// never successfully decrypted or created.
func (h *VolumeHeader) Close() {
	h.Salt.Close()
	h.DataAreaKey.Close()
	h.HeaderKey.Close()
	h.Salt = nil
	h.DataAreaKey = nil
	h.HeaderKey = nil
	h.EA = nil
	h.Mode = nil
	h.Pkcs5 = nil
}
