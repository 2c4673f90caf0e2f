package header

import (
	"crypto/rand"

	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/errors"
	"Picocrypt-NG/internal/kdf"
	"Picocrypt-NG/internal/log"
	"Picocrypt-NG/internal/securebuf"
)

// GetLargestSerializedKeySize returns the header-key buffer size needed for
// any (mode, algorithm) pair this build wires.
func GetLargestSerializedKeySize() int {
	return cipher.GetLargestSerializedKeySize()
}

// Decrypt searches kdfs x modes x algorithms, outer to inner in that order,
// for the combination that authenticates password against blob. On a match
// it populates h (including EA/Mode keyed for subsequent volume-data I/O,
// the matching Pkcs5, and a copy of the derived HeaderKey) and returns true. Exhausting the search without a match returns false,
// nil — the "wrong password" result, which is never an error. Decrypt never
// logs or returns any byte of password, salt, headerKey, or DataAreaKey.
func (h *VolumeHeader) Decrypt(
	blob []byte,
	password []byte,
	pim int,
	truecryptMode bool,
	kdfs []kdf.Pkcs5Kdf,
	modes []cipher.Mode,
	algorithms []cipher.Algorithm,
) (bool, error) {
	if len(blob) != h.HeaderSize {
		return false, errors.NewParamError("header", "Decrypt: blob size mismatch")
	}
	if len(password) == 0 {
		return false, errors.ErrPasswordEmpty
	}

	salt := blob[SaltOffset : SaltOffset+SaltSize]
	headerKeySize := GetLargestSerializedKeySize()
	headerKey := securebuf.New(headerKeySize)
	defer headerKey.Close()

	for _, pk := range kdfs {
		keyBytes, err := headerKey.GetRange(0, headerKeySize)
		if err != nil {
			return false, err
		}
		if err := pk.DeriveKey(keyBytes, password, pim, salt); err != nil {
			return false, err
		}

		for _, baseMode := range modes {
			// Work on a clone so the caller's mode list is never keyed or
			// rebound by the search.
			mode := baseMode.GetNew()
			if !mode.Kind().IsXTS() {
				modeKey, err := sliceAt(keyBytes, 0, mode.KeySize())
				if err != nil {
					return false, err
				}
				if err := mode.SetKey(modeKey); err != nil {
					return false, err
				}
			}

			for _, baseEA := range algorithms {
				ea := baseEA.GetNew()

				if !ea.IsModeSupported(mode) {
					continue
				}

				if mode.Kind().IsXTS() {
					// A fresh mode clone per algorithm attempt: the tweak
					// key's offset within keyBytes depends on this
					// algorithm's own KeySize, so the clone from the
					// previous algorithm attempt cannot be reused.
					mode = mode.GetNew()
					eaKeySize := ea.KeySize()
					cipherKey, err := sliceAt(keyBytes, 0, eaKeySize)
					if err != nil {
						return false, err
					}
					tweakKey, err := sliceAt(keyBytes, eaKeySize, eaKeySize)
					if err != nil {
						return false, err
					}
					if err := ea.SetKey(cipherKey); err != nil {
						return false, err
					}
					if err := ea.SetMode(mode); err != nil {
						return false, err
					}
					if err := mode.SetKey(tweakKey); err != nil {
						return false, err
					}
				} else {
					eaKey, err := sliceAt(keyBytes, cipher.LegacyEncryptionModeKeyAreaSize, ea.KeySize())
					if err != nil {
						return false, err
					}
					if err := ea.SetKey(eaKey); err != nil {
						return false, err
					}
					if err := ea.SetMode(mode); err != nil {
						return false, err
					}
				}

				ok, err := Deserialize(h, blob, ea, mode, truecryptMode)
				if err != nil {
					log.Debug("trial decrypt attempt errored",
						log.String("kdf", pk.Name()), log.String("mode", mode.Kind().String()),
						log.String("algorithm", ea.Name()), log.Err(err))
					return false, err
				}
				log.Debug("trial decrypt attempt",
					log.String("kdf", pk.Name()), log.String("mode", mode.Kind().String()),
					log.String("algorithm", ea.Name()), log.Bool("matched", ok))
				if ok {
					h.Pkcs5 = pk
					h.HeaderKey = securebuf.NewFrom(keyBytes)
					return true, nil
				}
			}
		}
	}

	return false, nil
}

// Create initializes a brand-new header: a random salt, a random
// DataAreaKey, and the field values a freshly created volume needs. New
// volumes are always bound to XTS; legacy CBC modes exist only to decrypt
// pre-existing old-format volumes. It does not derive a header-wrapping key
// or produce ciphertext; call EncryptNew for that once a password is
// available.
func Create(
	size int,
	pkcs5 kdf.Pkcs5Kdf,
	ea cipher.Algorithm,
	volumeDataSize, hiddenVolumeDataSize, encryptedAreaStart, encryptedAreaLength uint64,
	sectorSize uint32,
	flags uint32,
) (*VolumeHeader, error) {
	if sectorSize < MinSectorSize || sectorSize > MaxSectorSize || sectorSize%MinSectorSize != 0 {
		return nil, errors.NewParamError("SectorSize", "out of range or not a multiple of 512")
	}

	h := New(size)
	h.HeaderVersion = CurrentHeaderVersion
	h.RequiredMinProgramVersion = CurrentRequiredMinProgramVersion
	h.VolumeCreationTime = 0
	h.HeaderCreationTime = 0
	h.HiddenVolumeDataSize = hiddenVolumeDataSize
	h.VolumeDataSize = volumeDataSize
	h.EncryptedAreaStart = encryptedAreaStart
	h.EncryptedAreaLength = encryptedAreaLength
	h.Flags = flags
	h.SectorSize = sectorSize
	if hiddenVolumeDataSize != 0 {
		h.VolumeType = VolumeTypeHidden
	} else {
		h.VolumeType = VolumeTypeNormal
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.NewCryptoError("rand", err)
	}
	h.Salt = securebuf.NewFrom(salt)
	securebuf.Wipe(salt)

	dataAreaKey := make([]byte, DataKeyAreaMaxSize)
	if _, err := rand.Read(dataAreaKey); err != nil {
		return nil, errors.NewCryptoError("rand", err)
	}
	defer securebuf.Wipe(dataAreaKey)

	mode := cipher.NewXTS()
	if err := bindKeys(ea, mode, dataAreaKey); err != nil {
		return nil, err
	}
	h.EA = ea
	h.Mode = mode
	h.DataAreaKey = securebuf.NewFrom(dataAreaKey)
	h.Pkcs5 = pkcs5

	return h, nil
}

// EncryptNew derives a header-wrapping key from password via h.Pkcs5 and
// h.Salt, stores it as h.HeaderKey, and serializes the header under it. Used
// once, right after Create, to produce the volume's initial on-disk header.
func (h *VolumeHeader) EncryptNew(password []byte, pim int, truecryptMode bool) ([]byte, error) {
	if len(password) == 0 {
		return nil, errors.ErrPasswordEmpty
	}
	if h.Pkcs5 == nil || h.EA == nil || h.Mode == nil || h.Salt == nil {
		return nil, errors.NewParamError("header", "EncryptNew: header not initialized via Create")
	}

	headerKeySize := GetLargestSerializedKeySize()
	headerKey := securebuf.New(headerKeySize)
	keyBytes, err := headerKey.GetRange(0, headerKeySize)
	if err != nil {
		return nil, err
	}
	salt, err := h.Salt.GetRange(0, SaltSize)
	if err != nil {
		return nil, err
	}
	if err := h.Pkcs5.DeriveKey(keyBytes, password, pim, salt); err != nil {
		return nil, err
	}
	h.HeaderKey = headerKey
	h.TrueCryptMode = truecryptMode

	return h.wrapAndSerialize(keyBytes)
}

// Encrypt re-serializes the header's current field values under the
// HeaderKey a prior EncryptNew or successful Decrypt call stored — for writing an
// identical backup header, or after mutating a field such as Flags or
// VolumeDataSize without re-deriving from the password.
func (h *VolumeHeader) Encrypt() ([]byte, error) {
	if h.HeaderKey == nil {
		return nil, errors.NewParamError("header", "Encrypt: no header key; call EncryptNew first")
	}
	keyBytes, err := h.HeaderKey.GetRange(0, GetLargestSerializedKeySize())
	if err != nil {
		return nil, err
	}
	return h.wrapAndSerialize(keyBytes)
}

// wrapAndSerialize keys a fresh EA/Mode clone from the header-wrapping key
// bytes — distinct from h.EA/h.Mode, which stay keyed for the volume's data
// area — and serializes h under it.
func (h *VolumeHeader) wrapAndSerialize(headerKeyBytes []byte) ([]byte, error) {
	wrapEA := h.EA.GetNew()
	wrapMode := h.Mode.GetNew()
	if err := bindKeys(wrapEA, wrapMode, headerKeyBytes); err != nil {
		return nil, err
	}

	dataAreaKey, err := h.DataAreaKey.GetRange(0, DataKeyAreaMaxSize)
	if err != nil {
		return nil, err
	}
	return Serialize(h, dataAreaKey, wrapEA, wrapMode)
}
