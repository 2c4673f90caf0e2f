package header

import (
	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/crc32x"
	"Picocrypt-NG/internal/endian"
	"Picocrypt-NG/internal/errors"
	"Picocrypt-NG/internal/securebuf"
)

// Deserialize attempts to decrypt and parse blob (a HeaderSize-byte on-disk
// volume header, salt included) using ea and mode, already keyed for this
// trial by the caller, and truecryptMode selecting which magic and version
// floor to require.
//
// A false, nil return means "this isn't the right combination, keep
// searching" — a magic mismatch, a too-old header version, or either CRC
// check failing. It is never treated as an error. A non-nil error means the
// plaintext genuinely decoded under this key but declares something this
// build cannot honor (an unsupported future header version, a
// RequiredMinProgramVersion above this build's in VeraCrypt mode, an
// out-of-range TrueCrypt program-version stamp, a sector size outside bounds).
func Deserialize(h *VolumeHeader, blob []byte, ea cipher.Algorithm, mode cipher.Mode, truecryptMode bool) (bool, error) {
	if len(blob) != h.HeaderSize {
		return false, errors.NewParamError("header", "Deserialize: blob size mismatch")
	}

	scratch := make([]byte, h.EncryptedHeaderDataSize)
	copy(scratch, blob[EncryptedHeaderDataOffset:EncryptedHeaderDataOffset+h.EncryptedHeaderDataSize])
	defer securebuf.Wipe(scratch)

	if err := ea.Decrypt(scratch); err != nil {
		return false, err
	}

	wantMagic := magicVeraCrypt
	if truecryptMode {
		wantMagic = magicTrueCrypt
	}
	if string(scratch[magicOffset:magicOffset+magicSize]) != wantMagic {
		return false, nil
	}

	cur := endian.NewCursor(scratch)
	cur.Seek(headerVersionOffset)
	headerVersion, err := cur.ReadU16()
	if err != nil {
		return false, err
	}
	if headerVersion > CurrentHeaderVersion {
		return false, errors.NewVersionError(headerVersion, CurrentHeaderVersion)
	}
	minAllowed := uint16(MinAllowedHeaderVersion)
	if truecryptMode {
		minAllowed = MinAllowedHeaderVersionTrueCrypt
	}
	if headerVersion < minAllowed {
		return false, nil
	}

	requiredMinProgramVersion, err := cur.ReadU16()
	if err != nil {
		return false, err
	}
	if truecryptMode {
		if requiredMinProgramVersion < trueCryptMinRequiredProgramVersion ||
			requiredMinProgramVersion > trueCryptMaxRequiredProgramVersion {
			return false, errors.NewTrueCryptFormatError(requiredMinProgramVersion)
		}
		requiredMinProgramVersion = CurrentRequiredMinProgramVersion
	} else if requiredMinProgramVersion > CurrentRequiredMinProgramVersion {
		return false, errors.NewVersionError(requiredMinProgramVersion, CurrentRequiredMinProgramVersion)
	}

	volumeKeyAreaCrc32, err := cur.ReadU32()
	if err != nil {
		return false, err
	}

	// Header-wide CRC covers everything before headerCrcOffset; only
	// enforced from HeaderVersion 4 onward, matching the format's own
	// phase-in of this check.
	if headerVersion >= 4 {
		storedCrc, err := endian.U32At(scratch, headerCrcOffset)
		if err != nil {
			return false, err
		}
		if crc32x.Checksum(scratch[:headerCrcOffset]) != storedCrc {
			return false, nil
		}
	}

	volumeCreationTime, err := cur.ReadU64()
	if err != nil {
		return false, err
	}
	headerCreationTime, err := cur.ReadU64()
	if err != nil {
		return false, err
	}
	hiddenVolumeDataSize, err := cur.ReadU64()
	if err != nil {
		return false, err
	}
	volumeDataSize, err := cur.ReadU64()
	if err != nil {
		return false, err
	}
	encryptedAreaStart, err := cur.ReadU64()
	if err != nil {
		return false, err
	}
	encryptedAreaLength, err := cur.ReadU64()
	if err != nil {
		return false, err
	}
	flags, err := cur.ReadU32()
	if err != nil {
		return false, err
	}

	var sectorSize uint32
	if headerVersion < 5 {
		sectorSize = LegacySectorSize
	} else {
		sectorSize, err = cur.ReadU32()
		if err != nil {
			return false, err
		}
		if sectorSize < MinSectorSize || sectorSize > MaxSectorSize || sectorSize%MinSectorSize != 0 {
			return false, errors.NewParamError("SectorSize", "out of range or not a multiple of 512")
		}
	}

	dataAreaKey, err := sliceAt(scratch, dataAreaKeyOffset, DataKeyAreaMaxSize)
	if err != nil {
		return false, err
	}
	if crc32x.Checksum(dataAreaKey) != volumeKeyAreaCrc32 {
		return false, nil
	}

	if err := bindKeys(ea, mode, dataAreaKey); err != nil {
		return false, err
	}

	h.HeaderVersion = headerVersion
	h.RequiredMinProgramVersion = requiredMinProgramVersion
	h.VolumeKeyAreaCrc32 = volumeKeyAreaCrc32
	h.VolumeCreationTime = volumeCreationTime
	h.HeaderCreationTime = headerCreationTime
	h.HiddenVolumeDataSize = hiddenVolumeDataSize
	h.VolumeDataSize = volumeDataSize
	h.EncryptedAreaStart = encryptedAreaStart
	h.EncryptedAreaLength = encryptedAreaLength
	h.Flags = flags
	h.SectorSize = sectorSize
	h.TrueCryptMode = truecryptMode
	if hiddenVolumeDataSize != 0 {
		h.VolumeType = VolumeTypeHidden
	} else {
		h.VolumeType = VolumeTypeNormal
	}

	h.Salt = securebuf.NewFrom(blob[SaltOffset : SaltOffset+SaltSize])
	h.DataAreaKey = securebuf.NewFrom(dataAreaKey)
	h.EA = ea
	h.Mode = mode

	return true, nil
}

// bindKeys extracts the algorithm and mode keys out of a decrypted
// DataAreaKey region and binds them, branching on the mode's Kind rather
// than its concrete Go type (SPEC_FULL.md §9).
func bindKeys(ea cipher.Algorithm, mode cipher.Mode, dataAreaKey []byte) error {
	eaKeySize := ea.KeySize()
	switch mode.Kind() {
	case cipher.KindXTS:
		cipherKey, err := sliceAt(dataAreaKey, 0, eaKeySize)
		if err != nil {
			return err
		}
		tweakKey, err := sliceAt(dataAreaKey, eaKeySize, eaKeySize)
		if err != nil {
			return err
		}
		if err := ea.SetKey(cipherKey); err != nil {
			return err
		}
		if err := mode.SetKey(tweakKey); err != nil {
			return err
		}
	default:
		modeKey, err := sliceAt(dataAreaKey, 0, mode.KeySize())
		if err != nil {
			return err
		}
		eaKey, err := sliceAt(dataAreaKey, cipher.LegacyEncryptionModeKeyAreaSize, eaKeySize)
		if err != nil {
			return err
		}
		if err := mode.SetKey(modeKey); err != nil {
			return err
		}
		if err := ea.SetKey(eaKey); err != nil {
			return err
		}
	}
	return ea.SetMode(mode)
}

func sliceAt(buf []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(buf) {
		return nil, errors.NewOutOfRange("header: sliceAt", offset, length, len(buf))
	}
	return buf[offset : offset+length], nil
}
