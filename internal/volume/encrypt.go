package volume

import (
	"fmt"
	"os"

	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/header"
	"Picocrypt-NG/internal/kdf"
)

// Encrypt creates a fresh volume header from req and writes it to
// req.OutputFile. This is the main entry point for volume creation.
func Encrypt(req *EncryptRequest) error {
	ctx := NewEncryptContext(req)
	defer ctx.Close()

	h, err := encryptGenerate(ctx, req)
	if err != nil {
		return err
	}

	blob, err := encryptWrap(ctx, req, h)
	if err != nil {
		return err
	}

	return encryptFinalize(ctx, req, blob)
}

func encryptGenerate(ctx *OperationContext, req *EncryptRequest) (*header.VolumeHeader, error) {
	ctx.SetStatus("Generating header...")

	pkcs5 := req.KDF
	if pkcs5 == nil {
		kdfs := kdf.DefaultKDFs()
		pkcs5 = kdfs[0]
	}
	ea := req.Algorithm
	if ea == nil {
		algorithms := cipher.DefaultAlgorithms()
		ea = algorithms[0]
	}

	h, err := header.Create(
		512,
		pkcs5, ea,
		req.VolumeDataSize, req.HiddenVolumeDataSize,
		req.EncryptedAreaStart, req.EncryptedAreaLength,
		req.SectorSize, req.Flags,
	)
	if err != nil {
		return nil, err
	}
	ctx.Header = h
	return h, nil
}

func encryptWrap(ctx *OperationContext, req *EncryptRequest, h *header.VolumeHeader) ([]byte, error) {
	ctx.SetStatus("Deriving header key...")
	blob, err := h.EncryptNew([]byte(req.Password), req.Pim, req.TrueCryptMode)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func encryptFinalize(ctx *OperationContext, req *EncryptRequest, blob []byte) error {
	ctx.SetStatus("Writing volume header...")
	f, err := os.Create(req.OutputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(blob); err != nil {
		return fmt.Errorf("write volume header: %w", err)
	}
	return f.Sync()
}
