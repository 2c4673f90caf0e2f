package header

import (
	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/crc32x"
	"Picocrypt-NG/internal/endian"
	"Picocrypt-NG/internal/errors"
	"Picocrypt-NG/internal/securebuf"
)

// Serialize encodes h's current field values plus dataAreaKey into a fresh
// HeaderSize-byte blob, encrypting the region from EncryptedHeaderDataOffset
// onward with wrapEA/wrapMode (already keyed from a header-wrapping key, not
// from DataAreaKey itself — see EncryptNew/Encrypt). The salt is written in
// the clear, exactly mirroring what Deserialize expects to find.
func Serialize(h *VolumeHeader, dataAreaKey []byte, wrapEA cipher.Algorithm, wrapMode cipher.Mode) ([]byte, error) {
	if len(dataAreaKey) != DataKeyAreaMaxSize {
		return nil, errors.NewParamError("header", "Serialize: dataAreaKey size mismatch")
	}
	if h.Salt.Size() != SaltSize {
		return nil, errors.NewParamError("header", "Serialize: salt not set")
	}

	scratch := make([]byte, h.EncryptedHeaderDataSize)
	defer securebuf.Wipe(scratch)

	wantMagic := magicVeraCrypt
	if h.TrueCryptMode {
		wantMagic = magicTrueCrypt
	}
	copy(scratch[magicOffset:magicOffset+magicSize], []byte(wantMagic))

	cur := endian.NewCursor(scratch)
	cur.Seek(headerVersionOffset)
	if err := cur.WriteU16(h.HeaderVersion); err != nil {
		return nil, err
	}
	if err := cur.WriteU16(h.RequiredMinProgramVersion); err != nil {
		return nil, err
	}

	volumeKeyAreaCrc32 := crc32x.Checksum(dataAreaKey)
	if err := cur.WriteU32(volumeKeyAreaCrc32); err != nil {
		return nil, err
	}

	// VolumeCreationTime and HeaderCreationTime are written as reserved
	// zeros; values read by Deserialize are not carried over.
	if err := cur.WriteU64(0); err != nil {
		return nil, err
	}
	if err := cur.WriteU64(0); err != nil {
		return nil, err
	}
	if err := cur.WriteU64(h.HiddenVolumeDataSize); err != nil {
		return nil, err
	}
	if err := cur.WriteU64(h.VolumeDataSize); err != nil {
		return nil, err
	}
	if err := cur.WriteU64(h.EncryptedAreaStart); err != nil {
		return nil, err
	}
	if err := cur.WriteU64(h.EncryptedAreaLength); err != nil {
		return nil, err
	}
	if err := cur.WriteU32(h.Flags); err != nil {
		return nil, err
	}

	// SectorSize is only present from HeaderVersion 5 onward; older headers
	// leave this field as reserved space, per LegacySectorSize's coercion on
	// the read side.
	if h.HeaderVersion >= 5 {
		if h.SectorSize < MinSectorSize || h.SectorSize > MaxSectorSize || h.SectorSize%MinSectorSize != 0 {
			return nil, errors.NewParamError("SectorSize", "out of range or not a multiple of 512")
		}
		if err := cur.WriteU32(h.SectorSize); err != nil {
			return nil, err
		}
	}

	copy(scratch[dataAreaKeyOffset:dataAreaKeyOffset+DataKeyAreaMaxSize], dataAreaKey)

	if h.HeaderVersion >= 4 {
		headerCrc := crc32x.Checksum(scratch[:headerCrcOffset])
		if err := endian.PutU32At(scratch, headerCrcOffset, headerCrc); err != nil {
			return nil, err
		}
	}

	if err := wrapEA.Encrypt(scratch); err != nil {
		return nil, err
	}

	blob := make([]byte, h.HeaderSize)
	salt, err := h.Salt.GetRange(0, SaltSize)
	if err != nil {
		return nil, err
	}
	copy(blob[SaltOffset:SaltOffset+SaltSize], salt)
	copy(blob[EncryptedHeaderDataOffset:], scratch)
	return blob, nil
}
